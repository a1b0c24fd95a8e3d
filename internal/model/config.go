package model

// Durable store keys. Each record lives under its own key; nothing cascades
// between them.
const (
	KeyAppConfig      = "app-config"
	KeySchedules      = "schedules"
	KeyDashboardState = "dashboard-state"
	KeyProducts       = "products"
)

// AppConfig holds the credentials the studio needs before it can talk to the
// generation API. It is always replaced wholesale, never merged.
type AppConfig struct {
	GeminiFlowID  string `json:"geminiFlowId"`
	APIKey        string `json:"apiKey"`
	ExternalToken string `json:"externalToken"`
}

// Configured reports whether both required credentials are present.
func (c AppConfig) Configured() bool {
	return c.GeminiFlowID != "" && c.APIKey != ""
}

// Masked returns a copy safe to hand to a client or an event payload.
func (c AppConfig) Masked() AppConfig {
	return AppConfig{
		GeminiFlowID:  c.GeminiFlowID,
		APIKey:        maskSecret(c.APIKey),
		ExternalToken: maskSecret(c.ExternalToken),
	}
}

func maskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 4:
		return "****"
	default:
		return "****" + s[len(s)-4:]
	}
}
