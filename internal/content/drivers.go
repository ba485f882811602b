package content

// DriverQuestion is one of the eight fixed architecture-driver questions
type DriverQuestion struct {
	Key      string
	Label    string
	Prompt   string
	Examples string
}

// DriverQuestions lists the architecture drivers in canonical order
var DriverQuestions = []DriverQuestion{
	{
		Key:      "unit_of_work",
		Label:    "Unit of Work",
		Prompt:   "What is the atomic unit of work in your system? (e.g., a single API request, a batch job, a user session)",
		Examples: "Examples: single API request, document upload cycle, user session, batch job, transaction",
	},
	{
		Key:      "scale_shape",
		Label:    "Scale Shape",
		Prompt:   "How do you expect load to grow? (e.g., linear with users, bursty during events, steady 24/7)",
		Examples: "Examples: linear with users, bursty during events, steady 24/7, seasonal peaks",
	},
	{
		Key:      "latency_contract",
		Label:    "Latency Contract",
		Prompt:   "What are your latency requirements? (e.g., p50 < 100ms, p99 < 1s, batch jobs can take hours)",
		Examples: "Examples: p50 < 100ms, p99 < 1s, batch jobs can take hours, real-time < 50ms",
	},
	{
		Key:      "data_volatility",
		Label:    "Data Volatility",
		Prompt:   "How often does your data change? What's the read/write ratio?",
		Examples: "Examples: 95% reads, updates hourly, write-heavy, append-only, rarely changes",
	},
	{
		Key:      "correctness_risk",
		Label:    "Correctness & Risk",
		Prompt:   "What happens if something goes wrong? What's the cost of errors?",
		Examples: "Examples: financial requires ACID, analytics tolerates eventual consistency, idempotent operations",
	},
	{
		Key:      "cost_envelope",
		Label:    "Cost Envelope",
		Prompt:   "What are your infrastructure budget constraints? Any cost-per-request targets?",
		Examples: "Examples: $500/month budget, cost per API call < $0.001, serverless to minimize idle costs",
	},
	{
		Key:      "privacy_compliance",
		Label:    "Privacy & Compliance",
		Prompt:   "What privacy regulations apply? Any data residency requirements?",
		Examples: "Examples: GDPR for EU, HIPAA for health, SOC2, data residency requirements",
	},
	{
		Key:      "observability",
		Label:    "Day-One Observability",
		Prompt:   "What metrics and alerts do you need from day one?",
		Examples: "Examples: error rates, latency percentiles, queue depths, business KPIs, alerting thresholds",
	},
}

// GetDriverQuestion returns the catalog entry for a driver question key
func GetDriverQuestion(key string) (DriverQuestion, bool) {
	for _, q := range DriverQuestions {
		if q.Key == key {
			return q, true
		}
	}
	return DriverQuestion{}, false
}

// DecisionAreas lists the areas an architecture decision may belong to
var DecisionAreas = []string{
	"data_storage",
	"compute_strategy",
	"ux_contract",
	"state_sync",
	"interfaces",
	"risk_controls",
	"operations",
	"orchestration",
}
