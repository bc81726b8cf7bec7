package sqlite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/greatnessmensah/blog-crud-app/internal/apperror"
	"github.com/greatnessmensah/blog-crud-app/internal/model"
	"github.com/greatnessmensah/blog-crud-app/internal/repository"
)

// createTestPost creates a post owned by ownerID and fails the test on error.
func createTestPost(t *testing.T, db *DB, ownerID int64, title, content string) *model.Post {
	t.Helper()
	post := &model.Post{
		Title:     title,
		Content:   content,
		Published: true,
		OwnerID:   ownerID,
	}
	if err := db.Create(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

// newTestDBWithOwner gives each post test a database with one user to own
// the posts — owner_id has a foreign key, so posts can't exist without one.
func newTestDBWithOwner(t *testing.T) (*DB, *model.User) {
	t.Helper()
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	return db, owner
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCreatePost(t *testing.T) {
	db, owner := newTestDBWithOwner(t)

	post := &model.Post{
		Title:     "title1",
		Content:   "content1",
		Published: true,
		OwnerID:   owner.ID,
	}

	if err := db.Create(context.Background(), post); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if post.ID == 0 {
		t.Error("Create() should set the generated ID")
	}
	if post.CreatedAt.IsZero() {
		t.Error("Create() should set CreatedAt")
	}
}

func TestCreatePost_UnknownOwnerRejected(t *testing.T) {
	db := newTestDB(t)

	// No user with id 999 exists; the foreign key must refuse the insert.
	post := &model.Post{
		Title:   "orphan",
		Content: "no owner",
		OwnerID: 999,
	}

	if err := db.Create(context.Background(), post); err == nil {
		t.Error("Create() should fail when owner_id references no user")
	}
}

func TestCreatePost_PreservesPublishedFalse(t *testing.T) {
	db, owner := newTestDBWithOwner(t)

	post := &model.Post{
		Title:     "draft",
		Content:   "unpublished",
		Published: false,
		OwnerID:   owner.ID,
	}
	if err := db.Create(context.Background(), post); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := db.GetByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Published {
		t.Error("Published = true, want false")
	}
}

// =========================================================================
// GET TESTS
// =========================================================================

func TestGetPostByID(t *testing.T) {
	db, owner := newTestDBWithOwner(t)

	created := createTestPost(t, db, owner.ID, "title1", "content1")

	got, err := db.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Title != "title1" {
		t.Errorf("Title = %q, want %q", got.Title, "title1")
	}
	if got.Content != "content1" {
		t.Errorf("Content = %q, want %q", got.Content, "content1")
	}
	if got.OwnerID != owner.ID {
		t.Errorf("OwnerID = %d, want %d", got.OwnerID, owner.ID)
	}
}

func TestGetPostByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), 10000)
	if err == nil {
		t.Fatal("GetByID() should fail for a nonexistent id")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestListPosts_ReturnsAllInInsertionOrder(t *testing.T) {
	db, owner := newTestDBWithOwner(t)

	first := createTestPost(t, db, owner.ID, "title1", "content1")
	second := createTestPost(t, db, owner.ID, "title2", "content2")
	third := createTestPost(t, db, owner.ID, "title3", "content3")

	posts, err := db.List(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(posts) != 3 {
		t.Fatalf("List() returned %d posts, want 3", len(posts))
	}
	if posts[0].ID != first.ID || posts[1].ID != second.ID || posts[2].ID != third.ID {
		t.Errorf("List() order = [%d %d %d], want insertion order [%d %d %d]",
			posts[0].ID, posts[1].ID, posts[2].ID, first.ID, second.ID, third.ID)
	}
}

func TestListPosts_SearchFiltersByContent(t *testing.T) {
	db, owner := newTestDBWithOwner(t)

	createTestPost(t, db, owner.ID, "a", "about golang channels")
	createTestPost(t, db, owner.ID, "b", "about python decorators")
	createTestPost(t, db, owner.ID, "c", "more golang, this time generics")

	posts, err := db.List(context.Background(), repository.ListOptions{Search: "golang"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("List(search=golang) returned %d posts, want 2", len(posts))
	}
	// Listing must never return a post whose content lacks the substring
	for _, p := range posts {
		if !strings.Contains(p.Content, "golang") {
			t.Errorf("List() returned post %d with content %q lacking the search term", p.ID, p.Content)
		}
	}
}

func TestListPosts_SearchIsCaseSensitive(t *testing.T) {
	db, owner := newTestDBWithOwner(t)

	createTestPost(t, db, owner.ID, "a", "Go is great")
	createTestPost(t, db, owner.ID, "b", "go is great")

	posts, err := db.List(context.Background(), repository.ListOptions{Search: "Go"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	// LIKE would match both; instr() must match only the exact-case one.
	if len(posts) != 1 {
		t.Fatalf("List(search=Go) returned %d posts, want 1 (case-sensitive match)", len(posts))
	}
	if posts[0].Content != "Go is great" {
		t.Errorf("List() matched %q, want %q", posts[0].Content, "Go is great")
	}
}

func TestListPosts_SearchMatchesContentNotTitle(t *testing.T) {
	db, owner := newTestDBWithOwner(t)

	createTestPost(t, db, owner.ID, "needle in the title", "plain body")

	posts, err := db.List(context.Background(), repository.ListOptions{Search: "needle"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("List() matched the title; the filter is content-only")
	}
}

func TestListPosts_Pagination(t *testing.T) {
	db, owner := newTestDBWithOwner(t)

	for i := 0; i < 5; i++ {
		createTestPost(t, db, owner.ID, "t", "c")
	}

	page, err := db.List(context.Background(), repository.ListOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("List(limit=2, offset=2) returned %d posts, want 2", len(page))
	}
}

func TestListPosts_DefaultLimit(t *testing.T) {
	db, owner := newTestDBWithOwner(t)

	// 12 posts, zero-value options → default limit of 10 applies
	for i := 0; i < 12; i++ {
		createTestPost(t, db, owner.ID, "t", "c")
	}

	posts, err := db.List(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(posts) != defaultListLimit {
		t.Errorf("List() returned %d posts, want default limit %d", len(posts), defaultListLimit)
	}
}

func TestListPosts_EmptyDatabase(t *testing.T) {
	db := newTestDB(t)

	posts, err := db.List(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("List() on empty db returned %d posts", len(posts))
	}
	if posts == nil {
		t.Error("List() should return an empty slice, not nil (serializes as [] not null)")
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestUpdatePost(t *testing.T) {
	db, owner := newTestDBWithOwner(t)

	post := createTestPost(t, db, owner.ID, "before", "old content")

	post.Title = "after"
	post.Content = "new content"
	post.Published = false

	if err := db.Update(context.Background(), post); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := db.GetByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "after" || got.Content != "new content" || got.Published {
		t.Errorf("Update() persisted %+v", got)
	}
	// owner and id are immutable through Update
	if got.OwnerID != owner.ID {
		t.Errorf("OwnerID changed to %d", got.OwnerID)
	}
}

func TestUpdatePost_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Update(context.Background(), &model.Post{ID: 10000, Title: "x"})
	if err == nil {
		t.Fatal("Update() should fail for a nonexistent id")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestDeletePost(t *testing.T) {
	db, owner := newTestDBWithOwner(t)

	post := createTestPost(t, db, owner.ID, "doomed", "content")

	if err := db.Delete(context.Background(), post.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.GetByID(context.Background(), post.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete = %v, want ErrNotFound", err)
	}
}

func TestDeletePost_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Delete(context.Background(), 10000)
	if err == nil {
		t.Fatal("Delete() should fail for a nonexistent id")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
