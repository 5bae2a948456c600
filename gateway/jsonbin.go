package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/phanxgames/pinboard"
)

// DefaultJSONBinURL is the public JSONBin API root.
const DefaultJSONBinURL = "https://api.jsonbin.io/v3"

// MasterKeyHeader carries the JSONBin access key.
const MasterKeyHeader = "X-Master-Key"

// ErrNotConfigured is returned by saves when the key or bin id is missing.
var ErrNotConfigured = errors.New("gateway: jsonbin master key or bin id not configured")

// JSONBinConfig configures a JSONBin client.
type JSONBinConfig struct {
	BaseURL   string // defaults to DefaultJSONBinURL
	BinID     string
	MasterKey string
	Client    *http.Client
	Logger    *log.Entry
}

// JSONBin is a pinboard.Gateway over a JSONBin-style HTTP document API:
// GET {base}/b/{bin}/latest reads the newest version wrapped in a record
// envelope, GET {base}/b/{bin} reads the bin itself, and PUT {base}/b/{bin}
// replaces it.
type JSONBin struct {
	base   string
	bin    string
	key    string
	client *http.Client
	log    *log.Entry
}

var _ pinboard.Gateway = (*JSONBin)(nil)

// NewJSONBin creates a client.
func NewJSONBin(cfg JSONBinConfig) *JSONBin {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultJSONBinURL
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &JSONBin{
		base:   base,
		bin:    cfg.BinID,
		key:    cfg.MasterKey,
		client: client,
		log:    logger.WithFields(log.Fields{"component": "jsonbin", "bin": cfg.BinID}),
	}
}

// Configured reports whether both the key and the bin id are set.
func (j *JSONBin) Configured() bool {
	return j.key != "" && j.bin != ""
}

func (j *JSONBin) binURL() string {
	return j.base + "/b/" + j.bin
}

// Load implements pinboard.Gateway. An unconfigured client loads the empty
// default board. When /latest reports 404 the bin root is tried instead.
func (j *JSONBin) Load(ctx context.Context) (*pinboard.LoadedSnapshot, error) {
	if !j.Configured() {
		j.log.Error("jsonbin master key or bin id is not configured")
		return &pinboard.LoadedSnapshot{
			Snapshot:  pinboard.DefaultSnapshot(),
			HasItems:  true,
			HasConfig: true,
		}, nil
	}

	body, status, err := j.get(ctx, j.binURL()+"/latest")
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		j.log.Warn("latest version not found, reading bin root")
		body, status, err = j.get(ctx, j.binURL())
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("fetch initial bin data: status %d", status)
		}
	} else if status != http.StatusOK {
		return nil, fmt.Errorf("fetch bin: status %d: %s", status, truncate(body))
	}
	return DecodeSnapshot(body)
}

func (j *JSONBin) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set(MasterKeyHeader, j.key)
	resp, err := j.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch bin: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read bin: %w", err)
	}
	return body, resp.StatusCode, nil
}

// Save implements pinboard.Gateway.
func (j *JSONBin) Save(ctx context.Context, snap pinboard.Snapshot) error {
	if !j.Configured() {
		return ErrNotConfigured
	}
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, j.binURL(), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(MasterKeyHeader, j.key)

	resp, err := j.client.Do(req)
	if err != nil {
		return fmt.Errorf("save bin: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("save bin: status %d: %s", resp.StatusCode, truncate(body))
	}
	return nil
}

func truncate(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
