package anthropic_client

const (
	BaseURL = "https://api.anthropic.com"

	messagesPath = "/v1/messages"

	// Headers
	APIKeyHeader    = "x-api-key"
	VersionHeader   = "anthropic-version"
	APIVersion      = "2023-06-01"
	JsonHeader      = "Content-Type"
	JsonContentType = "application/json"
	roleUser        = "user"
	contentTypeText = "text"
)
