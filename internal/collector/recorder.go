package collector

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS model_ticks (
	tick INTEGER PRIMARY KEY,
	tasks_backlog INTEGER NOT NULL,
	tasks_active INTEGER NOT NULL,
	tasks_completed INTEGER NOT NULL,
	tasks_blocked INTEGER NOT NULL,
	mean_perceived REAL NOT NULL,
	mean_knowledge REAL NOT NULL,
	all_done INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS agent_ticks (
	tick INTEGER NOT NULL,
	agent INTEGER NOT NULL,
	x INTEGER NOT NULL,
	y INTEGER NOT NULL,
	perceived REAL NOT NULL,
	contributed REAL NOT NULL,
	knowledge INTEGER NOT NULL,
	current_task TEXT NOT NULL,
	current_subtask TEXT NOT NULL,
	interactions INTEGER NOT NULL,
	PRIMARY KEY (tick, agent)
);`

// Record persists a finished collector to a SQLite database at path,
// creating the schema as needed.
func Record(c *Collector, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("collector: open %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("collector: create schema: %w", err)
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("collector: begin: %w", err)
	}
	defer tx.Rollback()

	modelStmt, err := tx.Prepare(`INSERT OR REPLACE INTO model_ticks
		(tick, tasks_backlog, tasks_active, tasks_completed, tasks_blocked,
		 mean_perceived, mean_knowledge, all_done)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("collector: prepare model insert: %w", err)
	}
	defer modelStmt.Close()
	agentStmt, err := tx.Prepare(`INSERT OR REPLACE INTO agent_ticks
		(tick, agent, x, y, perceived, contributed, knowledge,
		 current_task, current_subtask, interactions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("collector: prepare agent insert: %w", err)
	}
	defer agentStmt.Close()

	for i, row := range c.ModelSeries() {
		done := 0
		if row.AllDone {
			done = 1
		}
		if _, err := modelStmt.Exec(row.Tick, row.TasksBacklog, row.TasksActive,
			row.TasksCompleted, row.TasksBlocked, row.MeanPerceived,
			row.MeanKnowledge, done); err != nil {
			return fmt.Errorf("collector: insert model tick %d: %w", row.Tick, err)
		}
		for _, agent := range c.AgentSeries()[i] {
			if _, err := agentStmt.Exec(row.Tick, agent.ID, agent.Position.X,
				agent.Position.Y, agent.Perceived, agent.Contributed,
				agent.KnowledgeSize, agent.CurrentTask, agent.CurrentSubTask,
				agent.Interactions); err != nil {
				return fmt.Errorf("collector: insert agent tick %d/%d: %w", row.Tick, agent.ID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("collector: commit: %w", err)
	}
	return nil
}
