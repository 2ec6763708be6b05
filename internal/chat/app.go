package chat

import (
	"github.com/rs/zerolog"

	"github.com/demigods200/tipsiti-chatapp/internal/auth"
)

// Application wires the configuration, collaborators and session controller
// together for the command-line surface.
type Application struct {
	Config    Config
	Logger    zerolog.Logger
	Drafts    DraftStore
	Remote    RemoteStore
	Transport Transport
	Index     *Index
	Session   *Session
	Tokens    *auth.TokenStore
	MockMode  bool
}

// NewApplication builds the full collaborator graph. In mock mode the remote
// store and transport are replaced with in-memory fakes and a synthetic
// credential, so the whole flow works without a server.
func NewApplication(cfg Config, mockMode bool) (*Application, error) {
	storageRoot := cfg.StorageRoot
	if storageRoot == "" {
		storageRoot = DefaultStorageRoot()
	}
	logger := NewLogger(storageRoot, cfg.Debug)

	var drafts DraftStore
	if cfg.StorageBackend == "file" {
		drafts = NewFileDraftStore(storageRoot)
	} else {
		st, err := NewSQLiteDraftStore(storageRoot)
		if err != nil {
			logger.Debug().Err(err).Msg("sqlite draft store unavailable, falling back to file store")
			drafts = NewFileDraftStore(storageRoot)
		} else {
			drafts = st
		}
	}

	tokens := auth.NewTokenStore(storageRoot)

	var remote RemoteStore
	var transport Transport
	var creds CredentialSource
	if mockMode {
		remote = NewMockRemoteStore()
		transport = NewMockTransport()
		creds = CredentialFunc(func() string { return "mock-session" })
	} else {
		remote = NewHTTPRemoteStore(cfg.BaseURL, logger)
		transport = NewHTTPTransport(cfg.BaseURL, logger)
		creds = tokens
	}

	index := NewIndex(remote, logger)
	session := NewSession(drafts, remote, transport, index, creds, logger)
	session.RestoreDraft()
	if len(session.Messages()) == 0 && cfg.Category != CategoryGeneral {
		_ = session.SetCategory(cfg.Category)
	}

	return &Application{
		Config:    cfg,
		Logger:    logger,
		Drafts:    drafts,
		Remote:    remote,
		Transport: transport,
		Index:     index,
		Session:   session,
		Tokens:    tokens,
		MockMode:  mockMode,
	}, nil
}
