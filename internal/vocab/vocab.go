// Package vocab defines the canonical cleaning vocabulary: surface types,
// dirt types, cleaning methods, tool categories, and the synonym tables that
// map free-text terms onto them. Everything here is pure lookup; no I/O.
package vocab

import "sort"

// Canonical surface types.
const (
	SurfacePillowsBedding = "pillows_bedding"
	SurfaceClothes        = "clothes"
	SurfaceCarpetsFloors  = "carpets_floors"
	SurfaceUpholstery     = "upholstery"
	SurfaceHardSurfaces   = "hard_surfaces"
	SurfaceAppliances     = "appliances"
	SurfaceBathroom       = "bathroom"
	SurfaceOutdoor        = "outdoor"
)

// Canonical dirt types.
const (
	DirtDust       = "dust"
	DirtStain      = "stain"
	DirtOdor       = "odor"
	DirtGrease     = "grease"
	DirtMold       = "mold"
	DirtPetHair    = "pet_hair"
	DirtWaterStain = "water_stain"
	DirtInk        = "ink"
)

// Canonical cleaning methods.
const (
	MethodWashingMachine = "washing_machine"
	MethodHandWash       = "hand_wash"
	MethodVacuum         = "vacuum"
	MethodSpotClean      = "spot_clean"
	MethodSteamClean     = "steam_clean"
	MethodDryClean       = "dry_clean"
	MethodWipe           = "wipe"
	MethodScrub          = "scrub"
)

// entry pairs a canonical value with the keywords that map to it. Tables are
// ordered slices, not maps: partial matching and free-text extraction scan
// them front to back and the first hit must be stable across runs.
type entry struct {
	canonical string
	keywords  []string
}

var surfaceTable = []entry{
	{SurfacePillowsBedding, []string{
		"pillow", "pillows", "bedding", "bed", "mattress", "mattresses",
		"duvet", "comforter", "blanket", "sheets", "bed sheet", "bedding set",
		"throw pillow", "cushion", "cushions", "headboard",
	}},
	{SurfaceClothes, []string{
		"shirt", "shirts", "t-shirt", "t-shirts", "clothes", "clothing",
		"fabric", "garment", "garments", "apparel", "laundry", "washable",
		"sweater", "sweaters", "jacket", "jackets", "pants", "jeans",
		"dress", "dresses", "blouse", "blouses", "suit", "suits",
	}},
	{SurfaceCarpetsFloors, []string{
		"carpet", "carpets", "rug", "rugs", "floor", "floors", "flooring",
		"carpeting", "area rug", "throw rug", "mat", "mats", "runner",
		"hardwood floor", "tile floor", "linoleum", "vinyl floor",
	}},
	{SurfaceUpholstery, []string{
		"sofa", "sofas", "couch", "couches", "chair", "chairs", "upholstery",
		"upholstered", "furniture", "armchair", "recliner", "ottoman",
		"loveseat", "sectional", "fabric sofa", "leather sofa",
	}},
	{SurfaceHardSurfaces, []string{
		"countertop", "countertops", "counter", "counters", "table", "tables",
		"desk", "desks", "shelf", "shelves", "cabinet", "cabinets",
		"hard surface", "hard surfaces", "tile", "tiles", "granite", "marble",
		"quartz", "ceramic tile",
	}},
	{SurfaceAppliances, []string{
		"oven", "ovens", "refrigerator", "fridge", "dishwasher", "microwave",
		"stove", "stovetop", "range", "appliance", "appliances", "washer",
		"dryer", "washing machine", "freezer",
	}},
	{SurfaceBathroom, []string{
		"bathroom", "shower", "showers", "bathtub", "tub", "sink", "sinks",
		"toilet", "toilets", "bathroom tile", "shower tile", "grout",
		"bathroom floor", "shower door", "mirror", "faucet", "faucets",
	}},
	{SurfaceOutdoor, []string{
		"patio", "deck", "decks", "outdoor", "outdoor furniture",
		"patio furniture", "decking", "outdoor carpet", "outdoor rug",
		"porch", "balcony", "driveway", "sidewalk", "outdoor surface",
	}},
}

var dirtTable = []entry{
	{DirtDust, []string{
		"dust", "dusty", "dusting", "dust accumulation", "dust build-up",
		"dust particles", "dusty surface", "dust mite", "dust mites",
	}},
	{DirtStain, []string{
		"stain", "stains", "stained", "staining", "spill", "spills",
		"spilled", "spot", "spots", "discoloration", "discolored", "mark",
		"marks", "blemish", "blemishes",
	}},
	{DirtOdor, []string{
		"odor", "odour", "odors", "smell", "smells", "smelly", "musty",
		"mustiness", "stale", "stale smell", "bad smell", "unpleasant odor",
		"foul odor", "lingering smell",
	}},
	{DirtGrease, []string{
		"grease", "greasy", "oil", "oily", "fat", "fatty", "grease stain",
		"oil stain", "cooking oil", "kitchen grease", "grease build-up",
		"grease accumulation",
	}},
	{DirtMold, []string{
		"mold", "mould", "mildew", "moldy", "mouldy", "fungus", "fungal",
		"mold growth", "mildew growth", "black mold", "mold stain",
		"mold removal", "mold remediation",
	}},
	{DirtPetHair, []string{
		"pet hair", "dog hair", "cat hair", "fur", "furry", "pet fur",
		"animal hair", "dander", "pet dander", "shedding", "pet shedding",
		"hair", "hairs",
	}},
	{DirtWaterStain, []string{
		"water stain", "water damage", "water mark", "water marks",
		"mineral deposit", "mineral deposits", "hard water stain",
		"lime scale", "limescale", "calcium deposit", "water spot",
	}},
	{DirtInk, []string{
		"ink", "ink stain", "pen", "pen mark", "marker", "marker stain",
		"ballpoint pen", "ink spill", "permanent marker", "ink mark",
	}},
}

var methodTable = []entry{
	{MethodWashingMachine, []string{
		"washing machine", "washer", "machine wash", "machine-wash",
		"machine washable", "laundry machine", "wash cycle", "washing cycle",
	}},
	{MethodHandWash, []string{
		"hand wash", "hand-wash", "handwashing", "hand washing",
		"wash by hand", "hand clean", "soak", "soaking", "soaked",
		"hand scrub", "manual wash",
	}},
	{MethodVacuum, []string{
		"vacuum", "vacuuming", "vacuumed", "vacuum cleaner", "vacuum up",
		"hoover", "hoovering", "suck up", "sucking up",
	}},
	{MethodSpotClean, []string{
		"spot clean", "spot-clean", "spot cleaning", "spot treatment",
		"spot removal", "local cleaning", "targeted cleaning", "spot treat",
	}},
	{MethodSteamClean, []string{
		"steam clean", "steam cleaning", "steam cleaner", "steam", "steaming",
		"steamed", "vapor cleaning", "steam treatment",
	}},
	{MethodDryClean, []string{
		"dry clean", "dry cleaning", "dry-clean", "dry cleaner",
		"professional cleaning", "dry clean only",
	}},
	{MethodWipe, []string{
		"wipe", "wiping", "wiped", "wipe down", "wipe off", "wipe clean",
		"damp cloth", "wet wipe", "cleaning wipe",
	}},
	{MethodScrub, []string{
		"scrub", "scrubbing", "scrubbed", "scrub brush", "scrubbing brush",
		"hard scrub", "scrub away", "scrub off",
	}},
}

var toolTable = []entry{
	{"vacuum", []string{
		"vacuum", "vacuum cleaner", "hoover", "upright vacuum",
		"canister vacuum", "handheld vacuum", "shop vac", "wet/dry vacuum",
	}},
	{"sponge", []string{
		"sponge", "sponges", "cleaning sponge", "scrub sponge",
		"magic eraser", "melamine sponge",
	}},
	{"brush", []string{
		"brush", "brushes", "scrub brush", "scrubbing brush", "stiff brush",
		"soft brush", "toothbrush", "nail brush", "cleaning brush",
	}},
	{"microfiber_cloth", []string{
		"microfiber", "microfiber cloth", "microfiber towel", "microfiber rag",
		"microfiber cleaning cloth", "microfiber wipe", "microfiber mop",
	}},
	{"steam_cleaner", []string{
		"steam cleaner", "steamer", "steam mop", "handheld steamer",
		"steam cleaning machine",
	}},
	{"vinegar", []string{
		"vinegar", "white vinegar", "distilled vinegar", "apple cider vinegar",
		"vinegar solution", "vinegar and water",
	}},
	{"baking_soda", []string{
		"baking soda", "bicarbonate of soda", "sodium bicarbonate",
		"baking soda paste", "baking soda solution",
	}},
	{"detergent", []string{
		"detergent", "laundry detergent", "dish detergent", "dish soap",
		"soap", "cleaning soap", "liquid soap",
	}},
	{"bleach", []string{
		"bleach", "chlorine bleach", "bleach solution", "bleach and water",
		"bleach cleaner",
	}},
	{"hydrogen_peroxide", []string{
		"hydrogen peroxide", "peroxide", "3% hydrogen peroxide",
	}},
	{"ammonia", []string{
		"ammonia", "ammonia solution", "ammonia and water",
	}},
	{"rubbing_alcohol", []string{
		"rubbing alcohol", "isopropyl alcohol", "alcohol", "70% alcohol",
	}},
	{"spray_bottle", []string{
		"spray bottle", "sprayer", "spray", "spray cleaner", "cleaning spray",
	}},
	{"bucket", []string{
		"bucket", "pail", "cleaning bucket", "mop bucket",
	}},
	{"mop", []string{
		"mop", "mops", "mop head", "wet mop", "dry mop", "microfiber mop",
		"sponge mop", "string mop",
	}},
	{"towel", []string{
		"towel", "towels", "paper towel", "paper towels", "cleaning towel",
		"rag", "rags", "cleaning rag", "cloth", "cleaning cloth",
	}},
	{"gloves", []string{
		"gloves", "rubber gloves", "cleaning gloves", "protective gloves",
		"latex gloves", "nitrile gloves",
	}},
}

// gentleMethods are the methods permitted under a gentle_only constraint.
var gentleMethods = map[string]bool{
	MethodSpotClean: true,
	MethodWipe:      true,
	MethodVacuum:    true,
	MethodHandWash:  true,
}

// actionVerbs are the imperative verbs cleaning instructions start with.
// Rephrased step text that no longer contains one of these is rejected.
var actionVerbs = []string{
	"mix", "apply", "spray", "wipe", "scrub", "rinse", "dry", "let", "allow",
	"remove", "blot", "vacuum", "wash", "soak", "dilute", "combine", "add",
	"pour", "dampen", "saturate", "cover", "place", "wait", "repeat", "shake",
	"stir", "spread", "gently", "carefully", "thoroughly",
}

func canonicals(table []entry) map[string]bool {
	set := make(map[string]bool, len(table))
	for _, e := range table {
		set[e.canonical] = true
	}
	return set
}

func lookup(table []entry) map[string]string {
	m := make(map[string]string)
	for _, e := range table {
		for _, kw := range e.keywords {
			m[kw] = e.canonical
		}
	}
	return m
}

var (
	canonicalSurfaces = canonicals(surfaceTable)
	canonicalDirt     = canonicals(dirtTable)
	canonicalMethods  = canonicals(methodTable)
	canonicalTools    = canonicals(toolTable)

	surfaceLookup = lookup(surfaceTable)
	dirtLookup    = lookup(dirtTable)
	methodLookup  = lookup(methodTable)
	toolLookup    = lookup(toolTable)
)

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Surfaces returns all canonical surface types, sorted.
func Surfaces() []string { return sortedKeys(canonicalSurfaces) }

// DirtTypes returns all canonical dirt types, sorted.
func DirtTypes() []string { return sortedKeys(canonicalDirt) }

// Methods returns all canonical cleaning methods, sorted.
func Methods() []string { return sortedKeys(canonicalMethods) }

// ToolCategories returns all canonical tool categories, sorted.
func ToolCategories() []string { return sortedKeys(canonicalTools) }

// ActionVerbs returns the imperative verb catalog. The returned slice is a
// copy; callers may reorder it.
func ActionVerbs() []string {
	verbs := make([]string, len(actionVerbs))
	copy(verbs, actionVerbs)
	return verbs
}

// IsGentleMethod reports whether method is allowed under gentle_only.
func IsGentleMethod(method string) bool { return gentleMethods[method] }
