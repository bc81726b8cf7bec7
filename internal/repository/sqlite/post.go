package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/greatnessmensah/blog-crud-app/internal/apperror"
	"github.com/greatnessmensah/blog-crud-app/internal/model"
	"github.com/greatnessmensah/blog-crud-app/internal/repository"
)

// compile-time check that *DB implements repository.PostRepository
var _ repository.PostRepository = (*DB)(nil)

// List defaults. Limit caps at MaxListLimit so a single request can't fetch
// the entire table.
const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// Create inserts a new post into the database.
//
// POINTER RECEIVER (*model.Post):
// We take a pointer so we can MODIFY the original struct. After Create(),
// the caller's post has the generated ID and timestamp. If we took a value
// (model.Post), those changes would be lost.
//
// PARAMETERIZED QUERIES (the ? placeholders):
// NEVER build SQL strings with fmt.Sprintf or string concatenation!
// That creates SQL injection vulnerabilities:
//
//	BAD:  "WHERE id = '" + userInput + "'"   ← attacker sends: ' OR 1=1 --
//	GOOD: "WHERE id = ?", userInput           ← driver safely escapes the value
func (db *DB) Create(ctx context.Context, post *model.Post) error {
	post.CreatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (title, content, published, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		post.Title,
		post.Content,
		post.Published,
		post.OwnerID,
		post.CreatedAt,
	)
	if err != nil {
		// ERROR WRAPPING:
		// fmt.Errorf("context: %w", err) wraps the original error.
		// The %w verb (not %v!) preserves the error chain so callers can use
		// errors.Is() to check the underlying cause.
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading inserted post id: %w", err)
	}
	post.ID = id

	return nil
}

// GetByID retrieves a single post by its ID.
//
// QueryRowContext runs a SELECT and returns at most one row. If the query
// returns no rows, Scan() returns sql.ErrNoRows, which we translate into
// our app's NotFound error so the handler knows to return 404. This is a
// common pattern: translate database errors into domain errors.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, content, published, owner_id, created_at
		 FROM posts
		 WHERE id = ?`,
		id,
	).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Published,
		&post.OwnerID,
		&post.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %d: %w", id, err)
	}

	return &post, nil
}

// List retrieves posts filtered by a content substring, with pagination.
//
// KEY CONCEPTS:
//
//  1. CASE-SENSITIVE SEARCH WITH instr():
//     SQLite's LIKE is case-INsensitive for ASCII, which would make
//     search=GO match "go" and "Go" alike. instr(content, ?) does a plain
//     byte-level substring search: it returns the 1-based position of the
//     first occurrence, or 0 when absent. For the empty string it returns 1,
//     so the default search="" matches every post — exactly the contract.
//
//  2. ORDER BY id = insertion order:
//     AUTOINCREMENT ids grow monotonically and are never reused, so sorting
//     by id returns posts oldest-first in the order they were created.
//
//  3. defer rows.Close() — ABSOLUTELY CRITICAL:
//     sql.Rows holds a database connection from the pool. If you forget to
//     Close(), that connection is never returned. After enough leaked
//     connections, your app runs out and hangs forever.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.Post, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, content, published, owner_id, created_at
		 FROM posts
		 WHERE instr(content, ?) > 0
		 ORDER BY id
		 LIMIT ? OFFSET ?`,
		opts.Search,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	// make([]model.Post, 0, limit) pre-allocates capacity for up to `limit`
	// elements, avoiding repeated reallocations as we append in the loop.
	posts := make([]model.Post, 0, limit)

	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Content, &p.Published,
			&p.OwnerID, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}

	// rows.Err() returns any error that occurred during Next() calls —
	// e.g. the database connection dropping mid-iteration.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// Update overwrites a post's mutable fields (title, content, published).
//
// CHECKING IF THE ROW EXISTS:
// ExecContext returns a sql.Result with RowsAffected(). If no rows were
// affected, the post doesn't exist → return NotFound. This is more
// efficient than doing a SELECT + UPDATE (one query vs two).
//
// Ownership is NOT checked here — the service layer fetches the post and
// compares owner_id before calling Update. The repository only knows about
// rows, not about who is asking.
func (db *DB) Update(ctx context.Context, post *model.Post) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE posts
		 SET title = ?, content = ?, published = ?
		 WHERE id = ?`,
		post.Title,
		post.Content,
		post.Published,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %d: %w", post.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", post.ID)
	}

	return nil
}

// Delete removes a post from the database by its ID.
//
// Same pattern as Update — check RowsAffected to detect "not found".
func (db *DB) Delete(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}
