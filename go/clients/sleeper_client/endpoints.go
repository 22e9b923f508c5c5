package sleeper_client

const (
	BaseURL = "https://api.sleeper.app/v1"

	// Paths
	userPath           = "/user/%s"
	userDraftsPath     = "/user/%s/drafts/%s/%s"
	leaguePath         = "/league/%s"
	draftPath          = "/draft/%s"
	draftPicksPath     = "/draft/%s/picks"
	playersPath        = "/players/%s"
	trendingPlayerPath = "/players/%s/trending/%s"

	// Headers
	JsonHeader      = "Content-Type"
	JsonContentType = "application/json"

	SportNFL = "nfl"
)
