package corpus

// SchemaSQL contains the corpus schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- DOCUMENT TABLE
    -- ==========================================================================
    -- One row per source document, already categorized by the extraction
    -- pipeline into a surface × dirt × method combination.
    DEFINE TABLE IF NOT EXISTS document SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS title ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS url ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS surface_type ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS dirt_type ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS cleaning_method ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS extraction_method ON document TYPE string DEFAULT "pattern";
    DEFINE FIELD IF NOT EXISTS extraction_confidence ON document TYPE float DEFAULT 0.7;
    DEFINE FIELD IF NOT EXISTS quality_score ON document TYPE float DEFAULT 0.5;
    DEFINE FIELD IF NOT EXISTS word_count ON document TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS step_count ON document TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS fetched_at ON document TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS processed_at ON document TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS document_scenario ON document FIELDS surface_type, dirt_type, cleaning_method;
    DEFINE INDEX IF NOT EXISTS document_surface ON document FIELDS surface_type;
    DEFINE INDEX IF NOT EXISTS document_dirt ON document FIELDS dirt_type;

    -- ==========================================================================
    -- STEP TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS step SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS document ON step TYPE record<document>;
    DEFINE FIELD IF NOT EXISTS step_order ON step TYPE int;
    DEFINE FIELD IF NOT EXISTS step_text ON step TYPE string;
    DEFINE FIELD IF NOT EXISTS step_summary ON step TYPE string DEFAULT "";
    DEFINE FIELD IF NOT EXISTS confidence ON step TYPE float DEFAULT 0.7;

    DEFINE INDEX IF NOT EXISTS step_document ON step FIELDS document;

    -- ==========================================================================
    -- TOOL TABLE
    -- ==========================================================================
    -- Tool mentions extracted per document; mentioned_in_step_id stays a plain
    -- string because it is display data, never traversed.
    DEFINE TABLE IF NOT EXISTS tool SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS document ON tool TYPE record<document>;
    DEFINE FIELD IF NOT EXISTS tool_name ON tool TYPE string;
    DEFINE FIELD IF NOT EXISTS tool_category ON tool TYPE string DEFAULT "";
    DEFINE FIELD IF NOT EXISTS confidence ON tool TYPE float DEFAULT 0.7;
    DEFINE FIELD IF NOT EXISTS mentioned_in_step_id ON tool TYPE string DEFAULT "";

    DEFINE INDEX IF NOT EXISTS tool_document ON tool FIELDS document;
    DEFINE INDEX IF NOT EXISTS tool_name_idx ON tool FIELDS tool_name;
`
