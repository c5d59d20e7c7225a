package dump

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/homeledger/internal/posting"
)

// Service moves the whole ledger in and out of dump files.
type Service struct {
	posting *posting.Service
	log     zerolog.Logger
}

// NewService creates a new dump Service.
func NewService(p *posting.Service, log zerolog.Logger) *Service {
	return &Service{
		posting: p,
		log:     log.With().Str("component", "dump").Logger(),
	}
}

// Export writes the current cached state to w.
func (s *Service) Export(w io.Writer) error {
	return Write(w, s.posting.Cache())
}

// Import parses r and stores its content in a single unit. Nothing is stored
// when any record is rejected.
func (s *Service) Import(ctx context.Context, r io.Reader) (posting.ImportResult, error) {
	b, charset, err := parse(r)
	if err != nil {
		return posting.ImportResult{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	res, err := s.posting.Import(ctx, b)
	if err != nil {
		return posting.ImportResult{}, fmt.Errorf("importing dump: %w", err)
	}

	s.log.Info().
		Str("charset", charset).
		Int("accounts", res.Accounts).
		Int("transactions", res.Transactions).
		Msg("dump imported")

	return res, nil
}
