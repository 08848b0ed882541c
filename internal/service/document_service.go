package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
	"github.com/noah-isme/dlservice-api/pkg/storage"
)

type documentStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type documentSigner interface {
	Generate(resourceID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (*storage.SignedToken, error)
}

type documentOwnerLookup interface {
	FindByApplicationIDForUser(ctx context.Context, applicationID, userID string) (*models.LearningLicense, error)
}

// DocumentUpload is an identity document attached to a learning application.
type DocumentUpload struct {
	Filename string
	Size     int64
	Content  io.ReadSeeker
}

// DocumentDownload is an opened stored document.
type DocumentDownload struct {
	File     *os.File
	Filename string
	MimeType string
	Size     int64
}

// DocumentServiceConfig configures upload limits and link generation.
type DocumentServiceConfig struct {
	MaxSize      int64
	AllowedMIMEs []string
	DownloadPath string
}

// DocumentService stores applicant documents and serves them through signed links.
type DocumentService struct {
	storage  documentStorage
	signer   documentSigner
	learning documentOwnerLookup
	logger   *zap.Logger
	cfg      DocumentServiceConfig
	mimeSet  map[string]struct{}
}

// NewDocumentService constructs the service.
func NewDocumentService(store documentStorage, signer documentSigner, learning documentOwnerLookup, logger *zap.Logger, cfg DocumentServiceConfig) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 16 * 1024 * 1024
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = "/documents/download"
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &DocumentService{storage: store, signer: signer, learning: learning, logger: logger, cfg: cfg, mimeSet: mimeSet}
}

// Save stores the upload as {userID}_{8 random alphanumerics}_{sanitized name} and
// returns the stored name.
func (s *DocumentService) Save(ctx context.Context, userID string, upload DocumentUpload) (string, error) {
	if upload.Content == nil || upload.Size <= 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "document: empty file")
	}
	if upload.Size > s.cfg.MaxSize {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("document: file exceeds %d bytes limit", s.cfg.MaxSize))
	}
	if len(s.mimeSet) > 0 {
		detected, err := mimetype.DetectReader(upload.Content)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect document")
		}
		if _, ok := s.mimeSet[strings.ToLower(detected.String())]; !ok {
			if _, ok := s.mimeSet[strings.ToLower(strings.SplitN(detected.String(), ";", 2)[0])]; !ok {
				return "", appErrors.Clone(appErrors.ErrValidation, "document: file type not allowed")
			}
		}
		if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
		}
	}

	suffix, err := randomString(nil, mixedAlnum, 8)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to name document")
	}
	name := fmt.Sprintf("%s_%s_%s", userID, suffix, sanitizeFilename(upload.Filename))
	stored, err := s.storage.SaveStream(name, io.LimitReader(upload.Content, s.cfg.MaxSize))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
	}
	return stored, nil
}

// Discard removes a stored document that never made it into an application.
func (s *DocumentService) Discard(name string) {
	if name == "" {
		return
	}
	if err := s.storage.Delete(name); err != nil {
		s.logger.Warn("failed to discard document", zap.String("document", name), zap.Error(err))
	}
}

// Link returns a signed download URL for the document of an owned learning application.
func (s *DocumentService) Link(ctx context.Context, actor models.Actor, applicationID string) (*models.DocumentLink, error) {
	ll, err := s.ownedApplication(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	if ll.DocumentPath == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no document uploaded for this application")
	}
	token, expiresAt, err := s.signer.Generate(ll.ApplicationID, ll.DocumentPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign document link")
	}
	return &models.DocumentLink{
		ApplicationID: ll.ApplicationID,
		URL:           s.cfg.DownloadPath + "?token=" + url.QueryEscape(token),
		ExpiresAt:     expiresAt,
	}, nil
}

// Open verifies the token, re-checks ownership and opens the file.
func (s *DocumentService) Open(ctx context.Context, actor models.Actor, token string) (*DocumentDownload, error) {
	signed, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired document link")
	}
	ll, err := s.ownedApplication(ctx, actor, signed.ResourceID)
	if err != nil {
		return nil, err
	}
	if ll.DocumentPath != signed.Path {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "document link does not match application")
	}
	file, err := s.storage.Open(signed.Path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open document")
	}
	info, err := file.Stat()
	if err != nil {
		file.Close() //nolint:errcheck
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read document metadata")
	}
	mimeType := "application/octet-stream"
	if detected, err := mimetype.DetectFile(file.Name()); err == nil {
		mimeType = detected.String()
	}
	return &DocumentDownload{File: file, Filename: filepath.Base(signed.Path), MimeType: mimeType, Size: info.Size()}, nil
}

func (s *DocumentService) ownedApplication(ctx context.Context, actor models.Actor, applicationID string) (*models.LearningLicense, error) {
	ll, err := s.learning.FindByApplicationIDForUser(ctx, strings.TrimSpace(applicationID), actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrApplicationNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	return ll, nil
}

// sanitizeFilename keeps letters, digits, dots, dashes and underscores of the base name.
// Stored names are {userID}_{suffix}_{name}; the cap keeps them under the
// 255 byte filesystem and document_path limits.
const (
	maxStoredNameLen = 150
	maxExtLen        = 16
)

func sanitizeFilename(raw string) string {
	base := filepath.Base(strings.ReplaceAll(raw, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "._")
	if name == "" {
		return "document"
	}
	if len(name) > maxStoredNameLen {
		ext := filepath.Ext(name)
		if len(ext) > maxExtLen {
			ext = ""
		}
		name = strings.TrimRight(name[:maxStoredNameLen-len(ext)], "._") + ext
	}
	return name
}
