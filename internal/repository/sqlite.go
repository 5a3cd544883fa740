package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"pageinsights-api/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteStore is the embedded document store variant for development and
// single-instance deployments. It backs all three repositories with one
// database handle in WAL mode.
type SQLiteStore struct {
	db  *sql.DB
	log *zap.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database at dbPath.
func NewSQLiteStore(dbPath string, log *zap.Logger) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Info("SQLite store initialized", zap.String("path", dbPath))
	return &SQLiteStore{db: db, log: log}, nil
}

func createTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		profile_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		website TEXT NOT NULL DEFAULT '',
		industry TEXT NOT NULL DEFAULT '',
		followers_count INTEGER NOT NULL DEFAULT 0,
		headcount TEXT NOT NULL DEFAULT '',
		specialties TEXT NOT NULL DEFAULT '[]',
		profile_image_url TEXT NOT NULL DEFAULT '',
		posts_synced_at INTEGER,
		followers_synced_at INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_profiles_industry ON profiles(industry);
	CREATE INDEX IF NOT EXISTS idx_profiles_followers ON profiles(followers_count);

	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id TEXT NOT NULL UNIQUE,
		profile_id TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		likes INTEGER NOT NULL DEFAULT 0,
		comments_count INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_profile ON posts(profile_id);

	CREATE TABLE IF NOT EXISTS followers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL UNIQUE,
		profile_id TEXT NOT NULL,
		name TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_followers_profile ON followers(profile_id);
	`
	_, err := db.Exec(query)
	return err
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database handle.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Timestamps are stored as unix milliseconds so index order matches
// creation order.
func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func fromMillisPtr(ms sql.NullInt64) *time.Time {
	if !ms.Valid {
		return nil
	}
	t := fromMillis(ms.Int64)
	return &t
}

// SQLiteProfileRepository implements ProfileRepository over a SQLiteStore.
type SQLiteProfileRepository struct {
	store *SQLiteStore
}

// NewSQLiteProfileRepository creates the SQLite profile repository.
func NewSQLiteProfileRepository(store *SQLiteStore) *SQLiteProfileRepository {
	return &SQLiteProfileRepository{store: store}
}

// Create persists a new profile.
func (r *SQLiteProfileRepository) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	specialties, err := json.Marshal(p.Specialties)
	if err != nil {
		return nil, fmt.Errorf("failed to encode specialties: %w", err)
	}

	query := `
		INSERT INTO profiles (profile_id, name, url, description, website, industry,
			followers_count, headcount, specialties, profile_image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.store.db.ExecContext(ctx, query,
		p.ProfileID, p.Name, p.URL, p.Description, p.Website, p.Industry,
		p.FollowersCount, p.Headcount, string(specialties), p.ProfileImageURL,
		toMillis(now), toMillis(now))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("profile %q: %w", p.ProfileID, ErrDuplicateID)
		}
		return nil, fmt.Errorf("failed to create profile %q: %w", p.ProfileID, err)
	}

	return r.GetByID(ctx, p.ProfileID)
}

const profileColumns = `profile_id, name, url, description, website, industry,
	followers_count, headcount, specialties, profile_image_url,
	posts_synced_at, followers_synced_at, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*model.Profile, error) {
	var (
		p                        model.Profile
		specialties              string
		postsSynced, follSynced  sql.NullInt64
		createdAt, updatedAt     int64
	)

	err := row.Scan(&p.ProfileID, &p.Name, &p.URL, &p.Description, &p.Website,
		&p.Industry, &p.FollowersCount, &p.Headcount, &specialties,
		&p.ProfileImageURL, &postsSynced, &follSynced, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(specialties), &p.Specialties); err != nil {
		return nil, fmt.Errorf("failed to decode specialties: %w", err)
	}
	p.PostsSyncedAt = fromMillisPtr(postsSynced)
	p.FollowersSyncedAt = fromMillisPtr(follSynced)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)

	return &p, nil
}

// GetByID returns the profile with the given external id.
func (r *SQLiteProfileRepository) GetByID(ctx context.Context, profileID string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE profile_id = ?`

	p, err := scanProfile(r.store.db.QueryRowContext(ctx, query, profileID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %q: %w", profileID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %q: %w", profileID, err)
	}
	return p, nil
}

// Exists reports whether a profile with the given external id exists.
func (r *SQLiteProfileRepository) Exists(ctx context.Context, profileID string) (bool, error) {
	var one int
	err := r.store.db.QueryRowContext(ctx,
		`SELECT 1 FROM profiles WHERE profile_id = ? LIMIT 1`, profileID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check profile %q: %w", profileID, err)
	}
	return true, nil
}

// buildSearchWhere translates the filter set into a WHERE clause and args.
func buildSearchWhere(f model.SearchFilters) (string, []any) {
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if f.MinFollowers != nil {
		clauses = append(clauses, "followers_count >= ?")
		args = append(args, *f.MinFollowers)
	}
	if f.MaxFollowers != nil {
		clauses = append(clauses, "followers_count <= ?")
		args = append(args, *f.MaxFollowers)
	}
	if f.Industry != "" {
		clauses = append(clauses, "industry = ?")
		args = append(args, f.Industry)
	}
	if f.Name != "" {
		// LIKE is case-insensitive for ASCII by default in SQLite.
		clauses = append(clauses, "name LIKE ?")
		args = append(args, "%"+escapeLike(f.Name)+"%")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

// Search returns one page of matching profiles plus the total match count.
func (r *SQLiteProfileRepository) Search(ctx context.Context, f model.SearchFilters) ([]model.Profile, int64, error) {
	where, args := buildSearchWhere(f)
	if strings.Contains(where, "LIKE") {
		where += ` ESCAPE '\'`
	}

	var total int64
	err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	query := `SELECT ` + profileColumns + ` FROM profiles` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.store.db.QueryContext(ctx, query, append(args, f.Limit, f.Skip())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]model.Profile, 0, f.Limit)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to decode profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to search profiles: %w", err)
	}

	return profiles, total, nil
}

// MarkSynced records completion of a sub-resource acquisition.
func (r *SQLiteProfileRepository) MarkSynced(ctx context.Context, profileID string, kind SyncKind, at time.Time) error {
	field := "posts_synced_at"
	if kind == SyncFollowers {
		field = "followers_synced_at"
	}

	query := fmt.Sprintf(`UPDATE profiles SET %s = ?, updated_at = ? WHERE profile_id = ?`, field)
	res, err := r.store.db.ExecContext(ctx, query, toMillis(at), toMillis(time.Now().UTC()), profileID)
	if err != nil {
		return fmt.Errorf("failed to mark %s synced for profile %q: %w", kind, profileID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("profile %q: %w", profileID, ErrNotFound)
	}
	return nil
}

// Count returns the total number of stored profiles.
func (r *SQLiteProfileRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n)
	return n, err
}

// SQLitePostRepository implements PostRepository over a SQLiteStore.
type SQLitePostRepository struct {
	store *SQLiteStore
}

// NewSQLitePostRepository creates the SQLite post repository.
func NewSQLitePostRepository(store *SQLiteStore) *SQLitePostRepository {
	return &SQLitePostRepository{store: store}
}

// Create persists a new post.
func (r *SQLitePostRepository) Create(ctx context.Context, p *model.Post) (*model.Post, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO posts (post_id, profile_id, content, likes, comments_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.store.db.ExecContext(ctx, query,
		p.PostID, p.ProfileID, p.Content, p.Likes, p.CommentsCount,
		toMillis(now), toMillis(now))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("post %q: %w", p.PostID, ErrDuplicateID)
		}
		return nil, fmt.Errorf("failed to create post %q: %w", p.PostID, err)
	}

	return p, nil
}

// ListByProfileID returns one page of a profile's posts plus the total count.
func (r *SQLitePostRepository) ListByProfileID(ctx context.Context, profileID string, skip, limit int) ([]model.Post, int64, error) {
	var total int64
	err := r.store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE profile_id = ?`, profileID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts for profile %q: %w", profileID, err)
	}

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT post_id, profile_id, content, likes, comments_count, created_at, updated_at
		FROM posts WHERE profile_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		profileID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts for profile %q: %w", profileID, err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0, limit)
	for rows.Next() {
		var (
			p                    model.Post
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&p.PostID, &p.ProfileID, &p.Content, &p.Likes,
			&p.CommentsCount, &createdAt, &updatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to decode post: %w", err)
		}
		p.CreatedAt = fromMillis(createdAt)
		p.UpdatedAt = fromMillis(updatedAt)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, total, nil
}

// Count returns the total number of stored posts.
func (r *SQLitePostRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

// SQLiteFollowerRepository implements FollowerRepository over a SQLiteStore.
type SQLiteFollowerRepository struct {
	store *SQLiteStore
}

// NewSQLiteFollowerRepository creates the SQLite follower repository.
func NewSQLiteFollowerRepository(store *SQLiteStore) *SQLiteFollowerRepository {
	return &SQLiteFollowerRepository{store: store}
}

// Create persists a new follower.
func (r *SQLiteFollowerRepository) Create(ctx context.Context, f *model.Follower) (*model.Follower, error) {
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now

	query := `
		INSERT INTO followers (user_id, profile_id, name, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.store.db.ExecContext(ctx, query,
		f.UserID, f.ProfileID, f.Name, f.Title, toMillis(now), toMillis(now))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("follower %q: %w", f.UserID, ErrDuplicateID)
		}
		return nil, fmt.Errorf("failed to create follower %q: %w", f.UserID, err)
	}

	return f, nil
}

// ListByProfileID returns one page of a profile's followers plus the total count.
func (r *SQLiteFollowerRepository) ListByProfileID(ctx context.Context, profileID string, skip, limit int) ([]model.Follower, int64, error) {
	var total int64
	err := r.store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM followers WHERE profile_id = ?`, profileID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count followers for profile %q: %w", profileID, err)
	}

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT user_id, profile_id, name, title, created_at, updated_at
		FROM followers WHERE profile_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		profileID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list followers for profile %q: %w", profileID, err)
	}
	defer rows.Close()

	followers := make([]model.Follower, 0, limit)
	for rows.Next() {
		var (
			f                    model.Follower
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&f.UserID, &f.ProfileID, &f.Name, &f.Title,
			&createdAt, &updatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to decode follower: %w", err)
		}
		f.CreatedAt = fromMillis(createdAt)
		f.UpdatedAt = fromMillis(updatedAt)
		followers = append(followers, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list followers: %w", err)
	}

	return followers, total, nil
}

// Count returns the total number of stored followers.
func (r *SQLiteFollowerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM followers`).Scan(&n)
	return n, err
}
