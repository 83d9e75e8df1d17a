package usecases

// titles are flavor names by level; levels past the end keep the last one.
var titles = [...]string{
	"Sidewalk Scout",
	"Block Browser",
	"Alleyway Amateur",
	"Crosswalk Cadet",
	"Corner Cartographer",
	"Bus Stop Sleuth",
	"Backstreet Beginner",
	"Curbside Cruiser",
	"Laneway Lookout",
	"Neighborhood Novice",
	"District Drifter",
	"Park Path Prowler",
	"Avenue Adventurer",
	"Bikeway Buddy",
	"Transit Trailblazer",
	"Boulevard Breacher",
	"Skyline Surveyor",
	"Suburb Seeker",
	"Metro Mapmaker",
	"Urban Untangler",
	"Concrete Conqueror",
	"Waypoint Wrangler",
	"Perimeter Pioneer",
	"Gridline Groover",
	"Zoning Zealot",
	"Compass Collector",
	"Milepost Maverick",
	"Blockface Bard",
	"Streetlight Stalker",
	"Pavement Philosopher",
	"Traffic Tactician",
	"Median Magician",
	"Overpass Operative",
	"Underpass Unfolder",
	"Rooftop Rambler",
	"Corridor Chaser",
	"Parcel Pathfinder",
	"Latitude Lurker",
	"Longitude Lancer",
	"Boundary Breaker",
	"Wayfinding Whisperer",
	"Civic Circuit Scribe",
	"Arcade Analyst",
	"Esplanade Emissary",
	"Harbor Harbinger",
	"Canal Courier",
	"Causeway Curator",
	"Promenade Paladin",
	"Roundabout Rogue",
	"Switchback Savant",
	"Ferryline Forager",
	"Trailhead Tactician",
	"Lookout Laureate",
	"Vista Voyager",
	"Plateau Pacer",
	"Foothill Forerunner",
	"Ridgeline Ranger",
	"Compass Captain",
	"Sector Sentinel",
	"Ward Wayfarer",
	"Quarter Quester",
	"Borough Baron",
	"District Duke",
	"Precinct Prodigy",
	"Commons Champion",
	"Arcadia Archer",
	"Forum Frontiersman",
	"Atrium Aficionado",
	"Promontory Pathfinder",
	"Street Grid Sage",
	"Transit Titan",
	"Substrate Scholar",
	"Pylon Paladin",
	"Skybridge Skipper",
	"Concourse Commander",
	"Terminal Tactician",
	"Marquee Mapper",
	"Spire Surveyor",
	"Kernel Cartographer",
	"Topology Tinkerer",
	"Vector Vanguard",
	"Raster Ronin",
	"Tilelayer Tycoon",
	"Zoom-Level Zealot",
	"Viewport Vindicator",
	"Pan & Scan Paladin",
	"Frustum Forger",
	"Geofence General",
	"Buffer Bandit",
	"Polyline Prophet",
	"Polygon Paladin",
	"Centroid Sentinel",
	"Isochrone Illusionist",
	"Heatmap Herald",
	"Basemap Baron",
	"Overlay Overlord",
	"Legend Luminary",
	"Waypoint Warlock",
	"Urban Mythmaker",
	"Worldwalker",
}
