// Package pg implements the store on Postgres with pgx.
package pg

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dropDatabas3/autolink/internal/observability/logger"
	"github.com/dropDatabas3/autolink/internal/store"
	migrations "github.com/dropDatabas3/autolink/migrations/postgres"
)

type Options struct {
	MaxConns int32
	MinConns int32
	// Timeout bounds every query issued through the store.
	Timeout time.Duration
}

type Store struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

var _ store.Store = (*Store)(nil)

func New(ctx context.Context, dsn string, opts Options) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if opts.MaxConns > 0 {
		pcfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		pcfg.MinConns = opts.MinConns
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	log := logger.L().With(logger.Component("store.pg"))
	// Non-blocking startup: la app arranca aunque la DB esté caída temporalmente.
	if err := pool.Ping(ctx); err != nil {
		log.Warn("pg_pool_startup_ping_failed", logger.Err(err))
	} else {
		log.Info("pg_pool_ready", zap.Int32("max_conns", pcfg.MaxConns))
	}

	return &Store{pool: pool, timeout: opts.Timeout}, nil
}

// Pool expone el pool interno (migraciones, tests).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

const qUpsertCredential = `
	INSERT INTO profiles (user_id, linkedin_token, linkedin_profile_id, linkedin_connected, linkedin_token_expires_at, updated_at)
	VALUES ($1, $2, $3, TRUE, $4, now())
	ON CONFLICT (user_id)
	DO UPDATE SET linkedin_token            = EXCLUDED.linkedin_token,
	              linkedin_profile_id       = EXCLUDED.linkedin_profile_id,
	              linkedin_connected        = TRUE,
	              linkedin_token_expires_at = EXCLUDED.linkedin_token_expires_at,
	              updated_at                = now()`

// UpsertCredential is a single statement, so it is atomic per user_id.
func (s *Store) UpsertCredential(ctx context.Context, c store.Credential) error {
	c.Connected = true
	if err := c.Validate(); err != nil {
		return err
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, qUpsertCredential, c.UserID, c.AccessToken, c.ExternalProfileID, c.TokenExpiresAt.UTC())
	return store.Wrap("upsert_credential", err)
}

func (s *Store) Disconnect(ctx context.Context, userID string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		UPDATE profiles
		   SET linkedin_connected = FALSE,
		       linkedin_token = NULL,
		       linkedin_token_expires_at = NULL,
		       updated_at = now()
		 WHERE user_id = $1`, userID)
	return store.Wrap("disconnect", err)
}

func (s *Store) GetProfile(ctx context.Context, userID string) (*store.Profile, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	row := s.pool.QueryRow(ctx, `
		SELECT user_id, email, role, skills, topics, linkedin_profile_url,
		       linkedin_token, linkedin_profile_id, linkedin_connected, linkedin_token_expires_at,
		       status, last_agent_run, updated_at
		  FROM profiles WHERE user_id = $1`, userID)

	var (
		p                                store.Profile
		email, role, skills, topics, url *string
		token, profileID                 *string
	)
	err := row.Scan(&p.UserID, &email, &role, &skills, &topics, &url,
		&token, &profileID, &p.LinkedInConnected, &p.TokenExpiresAt,
		&p.Status, &p.LastAgentRun, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, store.Wrap("get_profile", err)
	}
	p.Email, p.Role, p.LinkedInProfileURL = deref(email), deref(role), deref(url)
	p.LinkedInToken, p.LinkedInProfileID = deref(token), deref(profileID)
	p.Skills, p.Topics = store.SplitList(deref(skills)), store.SplitList(deref(topics))
	return &p, nil
}

func (s *Store) SetAgentStatus(ctx context.Context, userID, status string, lastRun *time.Time) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, status, last_agent_run, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id)
		DO UPDATE SET status = EXCLUDED.status,
		              last_agent_run = COALESCE(EXCLUDED.last_agent_run, profiles.last_agent_run),
		              updated_at = now()`, userID, status, lastRun)
	return store.Wrap("set_agent_status", err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

const migrationLockKey = "autolink:migrations"

func lockID() int64 {
	h := sha256.Sum256([]byte(migrationLockKey))
	return int64(binary.BigEndian.Uint64(h[:8]))
}

// Migrate aplica los *_up.sql embebidos (orden lexicográfico) bajo un
// advisory lock y devuelve cuántos scripts corrió. Los scripts son idempotentes.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	id := lockID()
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", id); err != nil {
		return 0, fmt.Errorf("migration lock: %w", err)
	}
	defer func() {
		if _, err := conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", id); err != nil {
			logger.L().Warn("migration_unlock_failed", logger.Err(err))
		}
	}()

	files, err := fs.Glob(migrations.FS, "*_up.sql")
	if err != nil {
		return 0, err
	}
	sort.Strings(files)

	var applied int
	for _, f := range files {
		b, err := fs.ReadFile(migrations.FS, f)
		if err != nil {
			return applied, err
		}
		if _, err := conn.Exec(ctx, string(b)); err != nil {
			return applied, fmt.Errorf("exec %s: %w", f, err)
		}
		applied++
	}
	return applied, nil
}
