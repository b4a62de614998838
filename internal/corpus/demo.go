package corpus

// DemoDocuments returns a small built-in corpus for the CLI demo mode and the
// server's -demo flag. Coverage is deliberately uneven: some combinations have
// several corroborating documents, others only one, so fallback and degraded
// outcomes can be exercised without a database.
func DemoDocuments() []Document {
	return []Document{
		{
			ID: "demo-cf-stain-1", Title: "How to spot clean carpet stains", URL: "https://example.com/carpet-stain-guide",
			Surface: "carpets_floors", Dirt: "stain", Method: "spot_clean",
			Extraction: "pattern", Confidence: 0.9, Quality: 0.85, WordCount: 720,
			Steps: []DocStep{
				{ID: "demo-cf-stain-1-s01", Order: 1, Text: "Blot the stain with a clean white towel to absorb as much liquid as possible.", Summary: "Blot the stain", Confidence: 0.92},
				{ID: "demo-cf-stain-1-s02", Order: 2, Text: "Mix one tablespoon of dish soap with two cups of warm water.", Summary: "Mix cleaning solution", Confidence: 0.88},
				{ID: "demo-cf-stain-1-s03", Order: 3, Text: "Apply the solution to the stain with a sponge, working from the outside in.", Summary: "Apply solution", Confidence: 0.85},
				{ID: "demo-cf-stain-1-s04", Order: 4, Text: "Let the solution sit on the stain for ten minutes.", Summary: "Let it sit", Confidence: 0.8},
				{ID: "demo-cf-stain-1-s05", Order: 5, Text: "Rinse the area with cold water and blot dry with a towel.", Summary: "Rinse and dry", Confidence: 0.9},
			},
			Tools: []DocTool{
				{Name: "towel", Category: "towel", Confidence: 0.9, StepID: "demo-cf-stain-1-s01"},
				{Name: "detergent", Category: "detergent", Confidence: 0.85, StepID: "demo-cf-stain-1-s02"},
				{Name: "sponge", Category: "sponge", Confidence: 0.8, StepID: "demo-cf-stain-1-s03"},
			},
		},
		{
			ID: "demo-cf-stain-2", Title: "Carpet stain removal that works", URL: "https://example.com/carpet-stain-removal",
			Surface: "carpets_floors", Dirt: "stain", Method: "spot_clean",
			Extraction: "llm", Confidence: 0.85, Quality: 0.8, WordCount: 540,
			Steps: []DocStep{
				{ID: "demo-cf-stain-2-s01", Order: 1, Text: "Test the cleaner on a hidden corner of the carpet first.", Summary: "Test hidden area", Confidence: 0.85},
				{ID: "demo-cf-stain-2-s02", Order: 2, Text: "Blot the stain with a clean towel to absorb excess liquid.", Summary: "Blot the stain", Confidence: 0.8},
				{ID: "demo-cf-stain-2-s03", Order: 3, Text: "Spray a vinegar and water solution directly on the stain.", Summary: "Spray vinegar solution", Confidence: 0.82},
				{ID: "demo-cf-stain-2-s04", Order: 4, Text: "Dab the area with a microfiber cloth until the stain lifts.", Summary: "Dab until lifted", Confidence: 0.78},
			},
			Tools: []DocTool{
				{Name: "vinegar", Category: "vinegar", Confidence: 0.85, StepID: "demo-cf-stain-2-s03"},
				{Name: "spray_bottle", Category: "spray_bottle", Confidence: 0.8, StepID: "demo-cf-stain-2-s03"},
				{Name: "microfiber_cloth", Category: "microfiber_cloth", Confidence: 0.8, StepID: "demo-cf-stain-2-s04"},
			},
		},
		{
			ID: "demo-cf-stain-3", Title: "Steam cleaning carpets at home", URL: "https://example.com/steam-clean-carpet",
			Surface: "carpets_floors", Dirt: "stain", Method: "steam_clean",
			Extraction: "ner", Confidence: 0.7, Quality: 0.65, WordCount: 860,
			Steps: []DocStep{
				{ID: "demo-cf-stain-3-s01", Order: 1, Text: "Vacuum the carpet thoroughly to remove loose dirt.", Summary: "Vacuum first", Confidence: 0.75},
				{ID: "demo-cf-stain-3-s02", Order: 2, Text: "Fill the steam cleaner tank with hot water and cleaning solution.", Summary: "Fill the tank", Confidence: 0.7},
				{ID: "demo-cf-stain-3-s03", Order: 3, Text: "Clean the carpet in slow, overlapping passes with the steam cleaner.", Summary: "Steam in passes", Confidence: 0.68},
				{ID: "demo-cf-stain-3-s04", Order: 4, Text: "Allow the carpet to dry completely before walking on it.", Summary: "Let it dry", Confidence: 0.72},
			},
			Tools: []DocTool{
				{Name: "steam_cleaner", Category: "steam_cleaner", Confidence: 0.85, StepID: "demo-cf-stain-3-s02"},
				{Name: "vacuum", Category: "vacuum", Confidence: 0.7, StepID: "demo-cf-stain-3-s01"},
			},
		},
		{
			ID: "demo-cf-dust-1", Title: "Keeping carpets dust free", URL: "https://example.com/carpet-dust",
			Surface: "carpets_floors", Dirt: "dust", Method: "vacuum",
			Extraction: "pattern", Confidence: 0.88, Quality: 0.8, WordCount: 420,
			Steps: []DocStep{
				{ID: "demo-cf-dust-1-s01", Order: 1, Text: "Remove small furniture and objects from the carpet.", Summary: "Clear the area", Confidence: 0.85},
				{ID: "demo-cf-dust-1-s02", Order: 2, Text: "Vacuum the carpet in slow, overlapping rows.", Summary: "Vacuum in rows", Confidence: 0.9},
				{ID: "demo-cf-dust-1-s03", Order: 3, Text: "Vacuum along the edges with the crevice attachment.", Summary: "Vacuum edges", Confidence: 0.82},
				{ID: "demo-cf-dust-1-s04", Order: 4, Text: "Empty the vacuum canister outside when finished.", Summary: "Empty canister", Confidence: 0.8},
			},
			Tools: []DocTool{
				{Name: "vacuum", Category: "vacuum", Confidence: 0.95, StepID: "demo-cf-dust-1-s02"},
			},
		},
		{
			ID: "demo-cl-ink-1", Title: "Getting ink out of clothes", URL: "https://example.com/ink-clothes",
			Surface: "clothes", Dirt: "ink", Method: "hand_wash",
			Extraction: "pattern", Confidence: 0.82, Quality: 0.75, WordCount: 510,
			Steps: []DocStep{
				{ID: "demo-cl-ink-1-s01", Order: 1, Text: "Place a paper towel under the fabric to keep ink from spreading.", Summary: "Protect the layer below", Confidence: 0.8},
				{ID: "demo-cl-ink-1-s02", Order: 2, Text: "Dab rubbing alcohol onto the ink stain with a cotton ball.", Summary: "Dab with alcohol", Confidence: 0.85},
				{ID: "demo-cl-ink-1-s03", Order: 3, Text: "Blot the stain until no more ink transfers to the towel.", Summary: "Blot until clear", Confidence: 0.8},
				{ID: "demo-cl-ink-1-s04", Order: 4, Text: "Rinse the garment in cold water and wash as usual.", Summary: "Rinse and wash", Confidence: 0.82},
			},
			Tools: []DocTool{
				{Name: "rubbing_alcohol", Category: "rubbing_alcohol", Confidence: 0.85, StepID: "demo-cl-ink-1-s02"},
				{Name: "towel", Category: "towel", Confidence: 0.8, StepID: "demo-cl-ink-1-s01"},
			},
		},
		{
			ID: "demo-cl-ink-2", Title: "Pen marks on shirts", URL: "https://example.com/pen-marks",
			Surface: "clothes", Dirt: "ink", Method: "spot_clean",
			Extraction: "llm", Confidence: 0.75, Quality: 0.7, WordCount: 380,
			Steps: []DocStep{
				{ID: "demo-cl-ink-2-s01", Order: 1, Text: "Test the alcohol on an inside seam before treating the mark.", Summary: "Test on seam", Confidence: 0.75},
				{ID: "demo-cl-ink-2-s02", Order: 2, Text: "Apply rubbing alcohol to the pen mark and let it sit for five minutes.", Summary: "Apply and wait", Confidence: 0.78},
				{ID: "demo-cl-ink-2-s03", Order: 3, Text: "Rinse with cold water and repeat if the mark remains.", Summary: "Rinse and repeat", Confidence: 0.72},
			},
			Tools: []DocTool{
				{Name: "rubbing_alcohol", Category: "rubbing_alcohol", Confidence: 0.8, StepID: "demo-cl-ink-2-s02"},
			},
		},
		{
			ID: "demo-up-hair-1", Title: "Pet hair on the sofa", URL: "https://example.com/pet-hair-sofa",
			Surface: "upholstery", Dirt: "pet_hair", Method: "vacuum",
			Extraction: "pattern", Confidence: 0.86, Quality: 0.8, WordCount: 360,
			Steps: []DocStep{
				{ID: "demo-up-hair-1-s01", Order: 1, Text: "Remove the cushions and shake them out.", Summary: "Shake out cushions", Confidence: 0.82},
				{ID: "demo-up-hair-1-s02", Order: 2, Text: "Vacuum the upholstery with the brush attachment.", Summary: "Vacuum with brush", Confidence: 0.88},
				{ID: "demo-up-hair-1-s03", Order: 3, Text: "Wipe stubborn hair off with a slightly damp rubber glove.", Summary: "Wipe with glove", Confidence: 0.8},
			},
			Tools: []DocTool{
				{Name: "vacuum", Category: "vacuum", Confidence: 0.9, StepID: "demo-up-hair-1-s02"},
				{Name: "gloves", Category: "gloves", Confidence: 0.75, StepID: "demo-up-hair-1-s03"},
			},
		},
		{
			ID: "demo-hs-grease-1", Title: "Degreasing kitchen counters", URL: "https://example.com/counter-grease",
			Surface: "hard_surfaces", Dirt: "grease", Method: "wipe",
			Extraction: "pattern", Confidence: 0.84, Quality: 0.78, WordCount: 440,
			Steps: []DocStep{
				{ID: "demo-hs-grease-1-s01", Order: 1, Text: "Mix warm water with a few drops of dish soap in a spray bottle.", Summary: "Mix degreaser", Confidence: 0.85},
				{ID: "demo-hs-grease-1-s02", Order: 2, Text: "Spray the greasy area and let it sit for two minutes.", Summary: "Spray and wait", Confidence: 0.8},
				{ID: "demo-hs-grease-1-s03", Order: 3, Text: "Wipe the counter with a microfiber cloth until the grease is gone.", Summary: "Wipe clean", Confidence: 0.86},
				{ID: "demo-hs-grease-1-s04", Order: 4, Text: "Dry the surface with a clean towel.", Summary: "Dry surface", Confidence: 0.8},
			},
			Tools: []DocTool{
				{Name: "spray_bottle", Category: "spray_bottle", Confidence: 0.85, StepID: "demo-hs-grease-1-s01"},
				{Name: "microfiber_cloth", Category: "microfiber_cloth", Confidence: 0.85, StepID: "demo-hs-grease-1-s03"},
				{Name: "detergent", Category: "detergent", Confidence: 0.8, StepID: "demo-hs-grease-1-s01"},
			},
		},
		{
			ID: "demo-ba-mold-1", Title: "Scrubbing mold out of grout", URL: "https://example.com/grout-mold",
			Surface: "bathroom", Dirt: "mold", Method: "scrub",
			Extraction: "ner", Confidence: 0.78, Quality: 0.7, WordCount: 620,
			Steps: []DocStep{
				{ID: "demo-ba-mold-1-s01", Order: 1, Text: "Open a window and put on rubber gloves before you start. Caution: never mix bleach with ammonia.", Summary: "Ventilate and protect", Confidence: 0.8},
				{ID: "demo-ba-mold-1-s02", Order: 2, Text: "Apply a bleach solution to the moldy grout lines.", Summary: "Apply bleach solution", Confidence: 0.78},
				{ID: "demo-ba-mold-1-s03", Order: 3, Text: "Scrub the grout with a stiff brush in short strokes.", Summary: "Scrub the grout", Confidence: 0.8},
				{ID: "demo-ba-mold-1-s04", Order: 4, Text: "Rinse the tile with warm water and dry with a towel.", Summary: "Rinse and dry", Confidence: 0.76},
			},
			Tools: []DocTool{
				{Name: "bleach", Category: "bleach", Confidence: 0.85, StepID: "demo-ba-mold-1-s02"},
				{Name: "brush", Category: "brush", Confidence: 0.85, StepID: "demo-ba-mold-1-s03"},
				{Name: "gloves", Category: "gloves", Confidence: 0.8, StepID: "demo-ba-mold-1-s01"},
			},
		},
	}
}

// NewDemoMemory returns a memory store pre-seeded with the demo corpus.
func NewDemoMemory() *Memory {
	return NewMemory(DemoDocuments()...)
}
