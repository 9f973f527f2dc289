package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Descriptions: one row per repository URL, written once per successful
-- generation+validation and overwritten wholesale on re-save.
CREATE TABLE IF NOT EXISTS descriptions (
    repo_url TEXT PRIMARY KEY,
    description_mdx TEXT NOT NULL,
    repo_type TEXT NOT NULL,
    project_goal TEXT NOT NULL,
    tech_stack TEXT NOT NULL,          -- JSON array of strings
    maintenance TEXT NOT NULL,         -- active | inactive
    maturity TEXT NOT NULL,            -- experimental | stable
    model TEXT NOT NULL,
    confidence TEXT NOT NULL,          -- low | medium | high
    generated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_descriptions_confidence ON descriptions(confidence);
CREATE INDEX IF NOT EXISTS idx_descriptions_repo_type ON descriptions(repo_type);

-- Generation attempts: audit log of every pipeline run, successful or
-- not. Never consulted by pipeline decisions.
CREATE TABLE IF NOT EXISTS generation_attempts (
    attempt_id INTEGER PRIMARY KEY AUTOINCREMENT,
    repo_url TEXT NOT NULL,
    outcome TEXT NOT NULL,             -- ok | validation_failed | generation_failed | fetch_failed
    reason TEXT,
    model TEXT,
    duration_ms INTEGER,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_attempts_repo ON generation_attempts(repo_url);
CREATE INDEX IF NOT EXISTS idx_attempts_outcome ON generation_attempts(outcome);
`
