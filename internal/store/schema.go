package store

func schema(d Dialect) []string {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	now := "CURRENT_TIMESTAMP"
	jsonType := "TEXT"
	if d == Postgres {
		serial = "SERIAL PRIMARY KEY"
		now = "NOW()"
		jsonType = "JSONB"
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS metrics (
			id ` + serial + `,
			budget_deficit INTEGER DEFAULT 85000,
			projected_revenue INTEGER DEFAULT 90000,
			gap_coverage INTEGER DEFAULT 100,
			updated_at TIMESTAMP DEFAULT ` + now + `
		)`,
		`CREATE TABLE IF NOT EXISTS team_members (
			id ` + serial + `,
			name TEXT NOT NULL,
			initials TEXT,
			role TEXT,
			status TEXT DEFAULT 'active',
			system_prompt TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id ` + serial + `,
			title TEXT NOT NULL,
			description TEXT,
			type TEXT CHECK (type IN ('critical', 'warning', 'info')),
			link TEXT,
			created_at TIMESTAMP DEFAULT ` + now + `
		)`,
		`CREATE TABLE IF NOT EXISTS budget_scenarios (
			id ` + serial + `,
			user_id TEXT,
			scenario_type TEXT,
			streams ` + jsonType + `,
			calculations ` + jsonType + `,
			created_at TIMESTAMP DEFAULT ` + now + `
		)`,
	}
}
