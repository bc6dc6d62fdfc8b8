package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
)

// SQL drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// dialect captures the differences between the SQL backends.
type dialect struct {
	name       string
	serial     string // auto-increment primary key column type
	docType    string
	positional bool // $1 placeholders instead of ?
}

var (
	sqliteDialect   = dialect{name: DriverSQLite, serial: "INTEGER PRIMARY KEY AUTOINCREMENT", docType: "TEXT"}
	postgresDialect = dialect{name: DriverPostgres, serial: "BIGSERIAL PRIMARY KEY", docType: "JSONB", positional: true}
)

// rebind rewrites ? placeholders for dialects that need positional ones.
func (d dialect) rebind(q string) string {
	if !d.positional {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d dialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			seq ` + d.serial + `,
			id TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			version BIGINT NOT NULL,
			data ` + d.docType + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS job_posts (
			seq ` + d.serial + `,
			id TEXT NOT NULL UNIQUE,
			owner_id TEXT NOT NULL,
			data ` + d.docType + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			seq ` + d.serial + `,
			id TEXT NOT NULL UNIQUE,
			job_post_id TEXT NOT NULL,
			data ` + d.docType + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS applications_job_post_id_idx ON applications (job_post_id)`,
	}
}

// SQLStore keeps each record as a JSON document next to the columns used
// for lookup, ordering and optimistic locking.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	opts    options
	closers []func() error
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect, opts ...Option) (*SQLStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &SQLStore{db: db, dialect: d, opts: o}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", s.dialect.name, err)
		}
	}
	return nil
}

// Driver implements Store.
func (s *SQLStore) Driver() string { return s.dialect.name }

// Close implements Store.
func (s *SQLStore) Close() error {
	errs := []error{s.db.Close()}
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (s *SQLStore) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.rebind(q), args...)
}

func (s *SQLStore) queryDocs(ctx context.Context, q string, args ...any) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var docs [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLStore) queryDoc(ctx context.Context, q string, args ...any) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(q), args...).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return doc, err
}

func decodeAll[T any](docs [][]byte) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := json.Unmarshal(doc, &v); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

// InsertProfile implements ProfileStore.
func (s *SQLStore) InsertProfile(ctx context.Context, p model.Profile) (model.Profile, error) { //nolint:gocritic // hugeParam: records are values
	defer observe(s.dialect.name, "insert_profile", time.Now())

	rec := p.Clone()
	if rec.ID == "" {
		rec.ID = s.opts.newID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.opts.now()
	}
	rec.Version = 1

	doc, err := json.Marshal(rec)
	if err != nil {
		return model.Profile{}, fmt.Errorf("encode profile: %w", err)
	}
	if _, err := s.exec(ctx, `INSERT INTO profiles (id, role, version, data) VALUES (?, ?, ?, ?)`,
		rec.ID, string(rec.Role), rec.Version, string(doc)); err != nil {
		return model.Profile{}, fmt.Errorf("insert profile %s: %w", rec.ID, err)
	}
	return rec, nil
}

// GetProfile implements ProfileStore.
func (s *SQLStore) GetProfile(ctx context.Context, id string) (model.Profile, error) {
	defer observe(s.dialect.name, "get_profile", time.Now())

	doc, err := s.queryDoc(ctx, `SELECT data FROM profiles WHERE id = ?`, id)
	if err != nil {
		return model.Profile{}, fmt.Errorf("profile %s: %w", id, err)
	}
	var p model.Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return model.Profile{}, fmt.Errorf("decode profile %s: %w", id, err)
	}
	return p, nil
}

// ListProfiles implements ProfileStore.
func (s *SQLStore) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	defer observe(s.dialect.name, "list_profiles", time.Now())

	docs, err := s.queryDocs(ctx, `SELECT data FROM profiles ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return decodeAll[model.Profile](docs)
}

// ReplaceProfile implements ProfileStore.
func (s *SQLStore) ReplaceProfile(ctx context.Context, p model.Profile, expected int64) (model.Profile, error) { //nolint:gocritic // hugeParam: records are values
	defer observe(s.dialect.name, "replace_profile", time.Now())

	current, err := s.GetProfile(ctx, p.ID)
	if err != nil {
		return model.Profile{}, err
	}

	rec := p.Clone()
	rec.CreatedAt = current.CreatedAt
	rec.Version = expected + 1

	doc, err := json.Marshal(rec)
	if err != nil {
		return model.Profile{}, fmt.Errorf("encode profile: %w", err)
	}
	res, err := s.exec(ctx, `UPDATE profiles SET role = ?, version = ?, data = ? WHERE id = ? AND version = ?`,
		string(rec.Role), rec.Version, string(doc), rec.ID, expected)
	if err != nil {
		return model.Profile{}, fmt.Errorf("update profile %s: %w", rec.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Profile{}, fmt.Errorf("update profile %s: %w", rec.ID, err)
	}
	if n == 0 {
		return model.Profile{}, fmt.Errorf("profile %s, expected version %d: %w", rec.ID, expected, ErrConflict)
	}
	return rec, nil
}

// InsertJob implements JobStore.
func (s *SQLStore) InsertJob(ctx context.Context, j model.JobPost) (model.JobPost, error) { //nolint:gocritic // hugeParam: records are values
	defer observe(s.dialect.name, "insert_job", time.Now())

	rec := j.Clone()
	if rec.ID == "" {
		rec.ID = s.opts.newID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.opts.now()
	}

	doc, err := json.Marshal(rec)
	if err != nil {
		return model.JobPost{}, fmt.Errorf("encode job: %w", err)
	}
	if _, err := s.exec(ctx, `INSERT INTO job_posts (id, owner_id, data) VALUES (?, ?, ?)`,
		rec.ID, rec.OwnerID, string(doc)); err != nil {
		return model.JobPost{}, fmt.Errorf("insert job %s: %w", rec.ID, err)
	}
	return rec, nil
}

// GetJob implements JobStore.
func (s *SQLStore) GetJob(ctx context.Context, id string) (model.JobPost, error) {
	defer observe(s.dialect.name, "get_job", time.Now())

	doc, err := s.queryDoc(ctx, `SELECT data FROM job_posts WHERE id = ?`, id)
	if err != nil {
		return model.JobPost{}, fmt.Errorf("job %s: %w", id, err)
	}
	var j model.JobPost
	if err := json.Unmarshal(doc, &j); err != nil {
		return model.JobPost{}, fmt.Errorf("decode job %s: %w", id, err)
	}
	return j, nil
}

// ListJobs implements JobStore.
func (s *SQLStore) ListJobs(ctx context.Context) ([]model.JobPost, error) {
	defer observe(s.dialect.name, "list_jobs", time.Now())

	docs, err := s.queryDocs(ctx, `SELECT data FROM job_posts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return decodeAll[model.JobPost](docs)
}

// InsertApplication implements ApplicationStore.
func (s *SQLStore) InsertApplication(ctx context.Context, a model.Application) (model.Application, error) { //nolint:gocritic // hugeParam: records are values
	defer observe(s.dialect.name, "insert_application", time.Now())

	rec := a.Clone()
	if rec.ID == "" {
		rec.ID = s.opts.newID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.opts.now()
	}
	if rec.Status == "" {
		rec.Status = model.StatusApplied
	}

	doc, err := json.Marshal(rec)
	if err != nil {
		return model.Application{}, fmt.Errorf("encode application: %w", err)
	}
	if _, err := s.exec(ctx, `INSERT INTO applications (id, job_post_id, data) VALUES (?, ?, ?)`,
		rec.ID, rec.JobPostID, string(doc)); err != nil {
		return model.Application{}, fmt.Errorf("insert application %s: %w", rec.ID, err)
	}
	return rec, nil
}

// ListApplications implements ApplicationStore.
func (s *SQLStore) ListApplications(ctx context.Context, jobID string) ([]model.Application, error) {
	defer observe(s.dialect.name, "list_applications", time.Now())

	docs, err := s.queryDocs(ctx, `SELECT data FROM applications WHERE job_post_id = ? ORDER BY seq`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return decodeAll[model.Application](docs)
}

// Counts implements Store.
func (s *SQLStore) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	for table, dst := range map[string]*int{
		"profiles":     &c.Profiles,
		"job_posts":    &c.Jobs,
		"applications": &c.Applications,
	} {
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(dst); err != nil {
			return Counts{}, fmt.Errorf("count %s: %w", table, err)
		}
	}
	return c, nil
}
