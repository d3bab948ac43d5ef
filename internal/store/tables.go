package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the migrations and the queries.
const (
	slotsTable    = "kv_slots"
	slotKey       = "key"
	slotValue     = "value"
	slotUpdatedAt = "updated_at"

	sequenceTable = "global_sequence"
	sequenceID    = "id"
	sequenceNext  = "next_val"

	llmEventsTable = "llm_request_events"
)

var (
	// slotColumns hold one opaque document per key.
	slotColumns = []*schema.Column{
		{Name: slotKey, Type: field.TypeString, Size: 255},
		{Name: slotValue, Type: field.TypeBytes},
		{Name: slotUpdatedAt, Type: field.TypeTime},
	}
	// SlotsTable stores whole-document key/value slots.
	SlotsTable = &schema.Table{
		Name:       slotsTable,
		Columns:    slotColumns,
		PrimaryKey: []*schema.Column{slotColumns[0]},
	}

	sequenceColumns = []*schema.Column{
		{Name: sequenceID, Type: field.TypeInt},
		{Name: sequenceNext, Type: field.TypeInt64, Default: 1},
	}
	// SequenceTable holds the single-row global event sequence.
	SequenceTable = &schema.Table{
		Name:       sequenceTable,
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	llmEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "thinking_budget", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LLMEventsTable records every LLM API call for cost tracking and debugging.
	LLMEventsTable = &schema.Table{
		Name:       llmEventsTable,
		Columns:    llmEventColumns,
		PrimaryKey: []*schema.Column{llmEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmEventColumns[2]}},
			{Name: "llmrequestevent_provider", Columns: []*schema.Column{llmEventColumns[3]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventColumns[5]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{llmEventColumns[10]}},
		},
	}

	// Tables lists every table the store migrates.
	Tables = []*schema.Table{
		SlotsTable,
		SequenceTable,
		LLMEventsTable,
	}
)
