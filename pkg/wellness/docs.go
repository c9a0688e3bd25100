package wellness

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"github.com/murmurlabs/voicebots/internal/log"
)

// DocsExporter exports the journal to Google Docs. It handles the OAuth2
// consent flow and persists the token so reconnects survive restarts.
// Export is optional; without credentials the journal works unchanged.
type DocsExporter struct {
	config      *oauth2.Config
	token       *oauth2.Token
	tokenPath   string
	docsService *docs.Service

	mu sync.RWMutex
}

// DocsConfig configures the exporter.
type DocsConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "http://localhost:8080/api/export/callback"
	TokenPath    string // Path to store token (default: ~/.voicebots/google_token.json)
}

// NewDocsExporter creates an exporter. Returns an error when the OAuth
// client credentials are absent.
func NewDocsExporter(cfg DocsConfig) (*DocsExporter, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("wellness: GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
	}

	if cfg.RedirectURL == "" {
		cfg.RedirectURL = "http://localhost:8080/api/export/callback"
	}

	if cfg.TokenPath == "" {
		homeDir, _ := os.UserHomeDir()
		cfg.TokenPath = filepath.Join(homeDir, ".voicebots", "google_token.json")
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/documents",
			"https://www.googleapis.com/auth/drive.file",
		},
		Endpoint: google.Endpoint,
	}

	e := &DocsExporter{
		config:    oauthConfig,
		tokenPath: cfg.TokenPath,
	}

	// Reuse a previously stored token when present
	if err := e.loadToken(); err == nil {
		if err := e.initService(); err != nil {
			e.token = nil
		}
	}

	return e, nil
}

// IsAuthenticated returns true when a valid token is available.
func (e *DocsExporter) IsAuthenticated() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.token != nil && e.token.Valid()
}

// AuthURL returns the OAuth2 authorization URL for user consent.
func (e *DocsExporter) AuthURL() string {
	return e.config.AuthCodeURL("wellness-export", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// HandleCallback exchanges the authorization code for a token and brings
// up the Docs service.
func (e *DocsExporter) HandleCallback(code string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	token, err := e.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("wellness: failed to exchange code for token: %w", err)
	}

	e.mu.Lock()
	e.token = token
	e.mu.Unlock()

	if err := e.saveToken(); err != nil {
		log.Warn("failed to save google token", "error", err)
	}

	if err := e.initService(); err != nil {
		return fmt.Errorf("wellness: failed to initialize docs service: %w", err)
	}

	return nil
}

// Disconnect clears the authentication and removes the stored token.
func (e *DocsExporter) Disconnect() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.token = nil
	e.docsService = nil

	if err := os.Remove(e.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("wellness: failed to remove token file: %w", err)
	}
	return nil
}

// ExportJournal creates a Google Doc containing a digest of every entry
// and returns the document URL.
func (e *DocsExporter) ExportJournal(title string, entries []Entry) (string, error) {
	e.mu.RLock()
	service := e.docsService
	e.mu.RUnlock()

	if service == nil {
		return "", fmt.Errorf("wellness: not connected to Google Docs")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := service.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("wellness: failed to create document: %w", err)
	}

	content := formatJournalForDoc(title, entries)
	if content != "" {
		requests := []*docs.Request{
			{
				InsertText: &docs.InsertTextRequest{
					Location: &docs.Location{Index: 1},
					Text:     content,
				},
			},
		}
		_, err = service.Documents.BatchUpdate(created.DocumentId, &docs.BatchUpdateDocumentRequest{
			Requests: requests,
		}).Context(ctx).Do()
		if err != nil {
			return DocURL(created.DocumentId), fmt.Errorf("wellness: created doc but failed to add content: %w", err)
		}
	}

	return DocURL(created.DocumentId), nil
}

// DocURL returns the URL to view/edit a Google Doc.
func DocURL(docID string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%s/edit", docID)
}

// Status summarizes the export connection for the dashboard.
type ExportStatus struct {
	Connected bool   `json:"connected"`
	AuthURL   string `json:"auth_url,omitempty"`
}

// Status returns the current connection status.
func (e *DocsExporter) Status() ExportStatus {
	status := ExportStatus{Connected: e.IsAuthenticated()}
	if !status.Connected {
		status.AuthURL = e.AuthURL()
	}
	return status
}

// initService initializes the Docs service with the current token.
func (e *DocsExporter) initService() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.token == nil {
		return fmt.Errorf("wellness: no token available")
	}

	ctx := context.Background()
	client := e.config.Client(ctx, e.token)

	service, err := docs.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("wellness: failed to create docs service: %w", err)
	}

	e.docsService = service
	return nil
}

// loadToken loads the OAuth token from disk.
func (e *DocsExporter) loadToken() error {
	data, err := os.ReadFile(e.tokenPath)
	if err != nil {
		return err
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return err
	}

	e.mu.Lock()
	e.token = &token
	e.mu.Unlock()
	return nil
}

// saveToken saves the OAuth token to disk.
func (e *DocsExporter) saveToken() error {
	e.mu.RLock()
	token := e.token
	e.mu.RUnlock()

	if token == nil {
		return fmt.Errorf("wellness: no token to save")
	}

	if err := os.MkdirAll(filepath.Dir(e.tokenPath), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(e.tokenPath, data, 0o600)
}

// formatJournalForDoc renders entries for the exported document,
// newest first.
func formatJournalForDoc(title string, entries []Entry) string {
	var content string

	content += fmt.Sprintf("%s\n\n", title)
	content += fmt.Sprintf("Exported %s\n\n", time.Now().UTC().Format("January 2, 2006 15:04 UTC"))

	if len(entries) == 0 {
		content += "No check-ins recorded yet.\n"
		return content
	}

	for i := len(entries) - 1; i >= 0; i-- {
		content += entries[i].Digest()
		content += "\n\n"
	}

	return content
}
