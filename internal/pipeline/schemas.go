package pipeline

import "github.com/sells-group/foresight-cli/internal/llm"

var (
	classifySchema = llm.MustSchema("classify.json", `{
		"type": "object",
		"required": ["document_type", "domain", "horizon", "analytical_level"],
		"properties": {
			"document_type":    {"type": "string", "minLength": 1},
			"domain":           {"type": "string", "minLength": 1},
			"horizon":          {"type": "string", "minLength": 1},
			"analytical_level": {"type": "string", "minLength": 1}
		}
	}`)

	coverageSchema = llm.MustSchema("coverage.json", `{
		"type": "object",
		"required": ["coverage"],
		"properties": {
			"coverage": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["module", "status"],
					"properties": {
						"module": {"type": "string", "minLength": 1},
						"status": {"enum": ["active", "partial", "inactive"]},
						"missing_information": {
							"type": "array",
							"items": {"type": "string"}
						}
					}
				}
			}
		}
	}`)

	clarifySchema = llm.MustSchema("clarify.json", `{
		"type": "object",
		"required": ["questions"],
		"properties": {
			"questions": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "module", "question"],
					"properties": {
						"id":       {"type": "string", "minLength": 1},
						"module":   {"type": "string", "minLength": 1},
						"question": {"type": "string", "minLength": 1}
					}
				}
			}
		}
	}`)

	evidenceSchema = llm.MustSchema("evidence.json", `{
		"type": "object",
		"required": ["items"],
		"properties": {
			"items": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "kind", "chunk_id", "content"],
					"properties": {
						"id":       {"type": "string", "minLength": 1},
						"kind":     {"enum": ["claim", "actor", "event", "metric"]},
						"chunk_id": {"type": "string", "minLength": 1},
						"snippet":  {"type": "string"},
						"content":  {"type": "string"}
					}
				}
			}
		}
	}`)

	trendsSchema = llm.MustSchema("trends.json", `{
		"type": "object",
		"required": ["trends"],
		"properties": {
			"trends": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "label", "category"],
					"properties": {
						"id":        {"type": "string", "minLength": 1},
						"label":     {"type": "string", "minLength": 1},
						"category":  {"enum": ["mega", "trend", "micro"]},
						"direction": {"type": "string"},
						"strength":  {"type": "string"},
						"evidence_ids": {
							"type": "array",
							"items": {"type": "string"}
						}
					}
				}
			}
		}
	}`)

	weakSignalsSchema = llm.MustSchema("weak_signals.json", `{
		"type": "object",
		"required": ["weak_signals"],
		"properties": {
			"weak_signals": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "signal"],
					"properties": {
						"id":        {"type": "string", "minLength": 1},
						"signal":    {"type": "string", "minLength": 1},
						"rationale": {"type": "string"},
						"evolution": {"type": "string"},
						"evidence_ids": {
							"type": "array",
							"items": {"type": "string"}
						}
					}
				}
			}
		}
	}`)

	uncertaintiesSchema = llm.MustSchema("uncertainties.json", `{
		"type": "object",
		"required": ["critical_uncertainties"],
		"properties": {
			"critical_uncertainties": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "driver"],
					"properties": {
						"id":                 {"type": "string", "minLength": 1},
						"driver":             {"type": "string", "minLength": 1},
						"impact":             {"type": "string"},
						"uncertainty_reason": {"type": "string"},
						"evidence_ids": {
							"type": "array",
							"items": {"type": "string"}
						}
					}
				}
			}
		}
	}`)

	criticSchema = llm.MustSchema("critic.json", `{
		"type": "object",
		"required": ["labels"],
		"properties": {
			"contradictions": {"type": "array", "items": {"type": "string"}},
			"unsupported":    {"type": "array", "items": {"type": "string"}},
			"labels": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["item_ref", "label"],
					"properties": {
						"item_ref":   {"type": "string", "minLength": 1},
						"label":      {"enum": ["fact", "inference", "assumption"]},
						"confidence": {"type": "number", "minimum": 0, "maximum": 1},
						"note":       {"type": "string"}
					}
				}
			}
		}
	}`)

	scenariosSchema = llm.MustSchema("scenarios.json", `{
		"type": "object",
		"required": ["scenarios"],
		"properties": {
			"scenarios": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["id", "title", "summary"],
					"properties": {
						"id":           {"type": "string", "minLength": 1},
						"title":        {"type": "string", "minLength": 1},
						"summary":      {"type": "string", "minLength": 1},
						"implications": {"type": "array", "items": {"type": "string"}},
						"indicators":   {"type": "array", "items": {"type": "string"}}
					}
				}
			}
		}
	}`)
)
