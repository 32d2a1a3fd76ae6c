package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create survey drafts table
			CREATE TABLE survey_drafts (
				draft_key VARCHAR(255) PRIMARY KEY,
				document JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_survey_drafts_updated_at ON survey_drafts(updated_at);
		`,
	}
}
