package sleeper_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alexmeckes/draftagent/go/clients"
	"github.com/alexmeckes/draftagent/go/internal/models"
)

// ErrNotFound is returned when Sleeper answers 404 or a literal null body.
var ErrNotFound = errors.New("sleeper: resource not found")

type SleeperClient struct {
	*clients.BaseClient
}

func NewSleeperClient(baseURL string) *SleeperClient {
	if baseURL == "" {
		baseURL = BaseURL
	}
	client := &SleeperClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader(JsonHeader, JsonContentType)
	client.SetTimeout(10 * time.Second)

	return client
}

// getJSON fetches endpoint and decodes it into out.
func (c *SleeperClient) getJSON(ctx context.Context, endpoint string, out any) error {
	start := time.Now()
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		if clients.IsStatus(err, http.StatusNotFound) {
			return fmt.Errorf("%s: %w", endpoint, ErrNotFound)
		}
		return err
	}
	log.Debug().Str("endpoint", endpoint).Dur("took", time.Since(start)).Msg("sleeper request")

	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return fmt.Errorf("%s: %w", endpoint, ErrNotFound)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", endpoint, err)
	}
	return nil
}

// GetUser accepts either a username or a user id.
func (c *SleeperClient) GetUser(ctx context.Context, usernameOrID string) (*models.SleeperUser, error) {
	var user models.SleeperUser
	if err := c.getJSON(ctx, fmt.Sprintf(userPath, url.PathEscape(usernameOrID)), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *SleeperClient) GetUserDrafts(ctx context.Context, userID, sport, season string) ([]models.Draft, error) {
	var drafts []models.Draft
	if err := c.getJSON(ctx, fmt.Sprintf(userDraftsPath, url.PathEscape(userID), sport, season), &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

func (c *SleeperClient) GetLeague(ctx context.Context, leagueID string) (*models.League, error) {
	var league models.League
	if err := c.getJSON(ctx, fmt.Sprintf(leaguePath, url.PathEscape(leagueID)), &league); err != nil {
		return nil, err
	}
	return &league, nil
}

func (c *SleeperClient) GetDraft(ctx context.Context, draftID string) (*models.Draft, error) {
	var draft models.Draft
	if err := c.getJSON(ctx, fmt.Sprintf(draftPath, url.PathEscape(draftID)), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *SleeperClient) GetDraftPicks(ctx context.Context, draftID string) ([]models.DraftPick, error) {
	var picks []models.DraftPick
	if err := c.getJSON(ctx, fmt.Sprintf(draftPicksPath, url.PathEscape(draftID)), &picks); err != nil {
		return nil, err
	}
	return picks, nil
}

// GetAllPlayers downloads the full catalog for a sport. The payload is several megabytes.
func (c *SleeperClient) GetAllPlayers(ctx context.Context, sport string) (map[string]models.Player, error) {
	players := make(map[string]models.Player)
	if err := c.getJSON(ctx, fmt.Sprintf(playersPath, sport), &players); err != nil {
		return nil, err
	}
	for id, p := range players {
		if p.PlayerID == "" {
			p.PlayerID = id
			players[id] = p
		}
	}
	return players, nil
}

func (c *SleeperClient) GetTrendingPlayers(ctx context.Context, sport, trendType string) ([]models.TrendingPlayer, error) {
	var trending []models.TrendingPlayer
	if err := c.getJSON(ctx, fmt.Sprintf(trendingPlayerPath, sport, trendType), &trending); err != nil {
		return nil, err
	}
	return trending, nil
}
