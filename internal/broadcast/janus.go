package broadcast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/chessarena/server/internal/logger"
)

const roomBitrate = 500000

// JanusClient provisions camera and board videorooms on a Janus
// gateway, one pair per seated player.
type JanusClient struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

// NewJanusClient creates a client for the gateway at baseURL.
func NewJanusClient(baseURL string) *JanusClient {
	return &JanusClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		log:        logger.Default().WithPrefix("janus"),
	}
}

var _ RoomProvisioner = (*JanusClient)(nil)

// CreateSession opens a gateway session and attaches the videoroom
// plugin, returning both handles.
func (c *JanusClient) CreateSession(ctx context.Context) (int64, int64, error) {
	log := logger.FromContext(ctx).WithPrefix("janus")

	var sessionResp struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	err := c.post(ctx, c.baseURL, map[string]any{
		"janus":       "create",
		"transaction": transactionID(),
	}, &sessionResp)
	if err != nil {
		log.Error("failed to create session: %v", err)
		return 0, 0, err
	}

	var attachResp struct {
		Data struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	err = c.post(ctx, fmt.Sprintf("%s/%d", c.baseURL, sessionResp.Data.ID), map[string]any{
		"janus":       "attach",
		"plugin":      "janus.plugin.videoroom",
		"transaction": transactionID(),
	}, &attachResp)
	if err != nil {
		log.Error("failed to attach videoroom plugin: %v", err)
		return 0, 0, err
	}

	log.Debug("session %d ready, plugin handle %d", sessionResp.Data.ID, attachResp.Data.ID)
	return sessionResp.Data.ID, attachResp.Data.ID, nil
}

// CreateRoomsForUser creates the camera and board rooms for one player
// and returns their handles.
func (c *JanusClient) CreateRoomsForUser(ctx context.Context, sessionID, attachID int64, displayName string) (string, string, error) {
	camera, err := c.createRoom(ctx, sessionID, attachID, displayName+" camera")
	if err != nil {
		return "", "", err
	}
	board, err := c.createRoom(ctx, sessionID, attachID, displayName+" board")
	if err != nil {
		return "", "", err
	}
	return camera, board, nil
}

func (c *JanusClient) createRoom(ctx context.Context, sessionID, attachID int64, description string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("janus")

	var resp struct {
		PluginData struct {
			Data struct {
				Room int64 `json:"room"`
			} `json:"data"`
		} `json:"plugindata"`
	}
	err := c.post(ctx, fmt.Sprintf("%s/%d/%d", c.baseURL, sessionID, attachID), map[string]any{
		"janus": "message",
		"body": map[string]any{
			"request":     "create",
			"description": description,
			"bitrate":     roomBitrate,
			"publishers":  1,
		},
		"transaction": transactionID(),
	}, &resp)
	if err != nil {
		log.Error("failed to create room %q: %v", description, err)
		return "", err
	}

	log.Info("created room %d (%s)", resp.PluginData.Data.Room, description)
	return strconv.FormatInt(resp.PluginData.Data.Room, 10), nil
}

func (c *JanusClient) post(ctx context.Context, url string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("janus status %d: %s", resp.StatusCode, string(msg))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

var transactionCounter atomic.Int64

func transactionID() string {
	return fmt.Sprintf("tx-%d-%d", time.Now().UnixNano(), transactionCounter.Add(1))
}
