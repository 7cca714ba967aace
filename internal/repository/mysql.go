package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auction-board/internal/auctionerrors"
	model "auction-board/internal/models"

	"github.com/go-sql-driver/mysql"
)

// MySQLRepo is a MySQL-backed implementation of AuctionDB
type MySQLRepo struct {
	db *sql.DB
}

// NewMySQLRepo opens a MySQL connection for the given DSN and ensures the
// schema exists. The DSN must enable parseTime so DATETIME columns scan
// into time.Time.
func NewMySQLRepo(dsn string) (*MySQLRepo, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	repo := &MySQLRepo{db: db}
	if err := repo.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// Close releases the underlying connection pool
func (r *MySQLRepo) Close() error {
	return r.db.Close()
}

func (r *MySQLRepo) ensureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id CHAR(36) PRIMARY KEY,
			username VARCHAR(150) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id CHAR(36) PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS listings (
			id CHAR(36) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			image_url VARCHAR(512) NOT NULL DEFAULT '',
			initial_price DOUBLE NOT NULL,
			category_id CHAR(36) NULL,
			current_bid_id CHAR(36) NULL,
			owner_id CHAR(36) NOT NULL,
			winner_id CHAR(36) NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL,
			INDEX idx_listings_owner (owner_id),
			INDEX idx_listings_category (category_id)
		)`,
		`CREATE TABLE IF NOT EXISTS bids (
			id CHAR(36) PRIMARY KEY,
			listing_id CHAR(36) NOT NULL,
			user_id CHAR(36) NOT NULL,
			amount DOUBLE NOT NULL,
			created_at DATETIME NOT NULL,
			INDEX idx_bids_user (user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id CHAR(36) PRIMARY KEY,
			listing_id CHAR(36) NOT NULL,
			user_id CHAR(36) NOT NULL,
			text TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			INDEX idx_comments_listing (listing_id)
		)`,
		`CREATE TABLE IF NOT EXISTS watchlist (
			listing_id CHAR(36) NOT NULL,
			user_id CHAR(36) NOT NULL,
			PRIMARY KEY (listing_id, user_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// CreateUser stores a new user, rejecting duplicate usernames
func (r *MySQLRepo) CreateUser(user model.User) error {
	_, err := r.db.Exec(
		`INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.UserID, user.Username, user.Email, user.PasswordHash, user.CreatedAt,
	)
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return fmt.Errorf("create user %s: %w", user.Username, auctionerrors.ErrUsernameTaken)
	}
	if err != nil {
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return nil
}

// GetUserByUsername returns the user registered under username
func (r *MySQLRepo) GetUserByUsername(username string) (model.User, error) {
	row := r.db.QueryRow(
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`, username)
	return scanUser(row, username)
}

// GetUserByID returns the user with the given ID
func (r *MySQLRepo) GetUserByID(userID string) (model.User, error) {
	row := r.db.QueryRow(
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`, userID)
	return scanUser(row, userID)
}

func scanUser(row *sql.Row, key string) (model.User, error) {
	var user model.User
	err := row.Scan(&user.UserID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("get user %s: %w", key, auctionerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %s: %w", key, err)
	}
	return user, nil
}

// CreateCategory stores a new category
func (r *MySQLRepo) CreateCategory(category model.Category) error {
	_, err := r.db.Exec(`INSERT IGNORE INTO categories (id, name) VALUES (?, ?)`,
		category.CategoryID, category.Name)
	if err != nil {
		return fmt.Errorf("create category %s: %w", category.Name, err)
	}
	return nil
}

// GetCategories returns all categories ordered by name
func (r *MySQLRepo) GetCategories() ([]model.Category, error) {
	rows, err := r.db.Query(`SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.CategoryID, &c.Name); err != nil {
			return nil, fmt.Errorf("get categories: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategoryByName returns the category with the given name
func (r *MySQLRepo) GetCategoryByName(name string) (model.Category, error) {
	var c model.Category
	err := r.db.QueryRow(`SELECT id, name FROM categories WHERE name = ?`, name).
		Scan(&c.CategoryID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, fmt.Errorf("get category %q: %w", name, auctionerrors.ErrCategoryNotFound)
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("get category %q: %w", name, err)
	}
	return c, nil
}

// GetCategoryByID returns the category with the given ID
func (r *MySQLRepo) GetCategoryByID(categoryID string) (model.Category, error) {
	var c model.Category
	err := r.db.QueryRow(`SELECT id, name FROM categories WHERE id = ?`, categoryID).
		Scan(&c.CategoryID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, fmt.Errorf("get category %s: %w", categoryID, auctionerrors.ErrCategoryNotFound)
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("get category %s: %w", categoryID, err)
	}
	return c, nil
}

const listingColumns = `id, title, description, image_url, initial_price,
	category_id, current_bid_id, owner_id, winner_id, is_active, created_at`

// CreateListing stores a new listing
func (r *MySQLRepo) CreateListing(listing model.Listing) error {
	_, err := r.db.Exec(
		`INSERT INTO listings (id, title, description, image_url, initial_price,
			category_id, current_bid_id, owner_id, winner_id, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		listing.ListingID, listing.Title, listing.Description, listing.ImageURL,
		listing.InitialPrice, nullable(listing.CategoryID), nullable(listing.CurrentBidID),
		listing.OwnerID, nullable(listing.WinnerID), listing.IsActive, listing.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create listing %s: %w", listing.ListingID, err)
	}
	return nil
}

// GetListingByID returns the listing with the given ID
func (r *MySQLRepo) GetListingByID(listingID string) (model.Listing, error) {
	row := r.db.QueryRow(`SELECT `+listingColumns+` FROM listings WHERE id = ?`, listingID)
	listing, err := scanListing(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if err != nil {
		return model.Listing{}, fmt.Errorf("get listing %s: %w", listingID, err)
	}
	return listing, nil
}

// GetActiveListings returns all active listings ordered by title
func (r *MySQLRepo) GetActiveListings() ([]model.Listing, error) {
	return r.queryListings(`SELECT ` + listingColumns + ` FROM listings WHERE is_active = TRUE ORDER BY title`)
}

// GetActiveListingsByCategory returns active listings in a category ordered by title
func (r *MySQLRepo) GetActiveListingsByCategory(categoryID string) ([]model.Listing, error) {
	return r.queryListings(
		`SELECT `+listingColumns+` FROM listings WHERE is_active = TRUE AND category_id = ? ORDER BY title`,
		categoryID)
}

// GetListingsByOwner returns an owner's listings filtered by status, ordered by title
func (r *MySQLRepo) GetListingsByOwner(ownerID string, status model.ListingStatus) ([]model.Listing, error) {
	switch status {
	case model.StatusActive:
		return r.queryListings(
			`SELECT `+listingColumns+` FROM listings WHERE owner_id = ? AND is_active = TRUE ORDER BY title`, ownerID)
	case model.StatusInactive:
		return r.queryListings(
			`SELECT `+listingColumns+` FROM listings WHERE owner_id = ? AND is_active = FALSE ORDER BY title`, ownerID)
	default:
		return r.queryListings(
			`SELECT `+listingColumns+` FROM listings WHERE owner_id = ? ORDER BY title`, ownerID)
	}
}

// GetListingsWonByUser returns closed listings the user won, ordered by title
func (r *MySQLRepo) GetListingsWonByUser(userID string) ([]model.Listing, error) {
	return r.queryListings(
		`SELECT `+listingColumns+` FROM listings WHERE winner_id = ? ORDER BY title`, userID)
}

// GetListingsByCurrentBidder returns listings where the user holds the standing bid, ordered by title
func (r *MySQLRepo) GetListingsByCurrentBidder(userID string) ([]model.Listing, error) {
	return r.queryListings(
		`SELECT l.id, l.title, l.description, l.image_url, l.initial_price,
			l.category_id, l.current_bid_id, l.owner_id, l.winner_id, l.is_active, l.created_at
		FROM listings l
		JOIN bids b ON b.id = l.current_bid_id
		WHERE b.user_id = ?
		ORDER BY l.title`, userID)
}

// CloseListing deactivates a listing and records its winner
func (r *MySQLRepo) CloseListing(listingID, winnerID string) error {
	res, err := r.db.Exec(
		`UPDATE listings SET is_active = FALSE, winner_id = ? WHERE id = ?`,
		nullable(winnerID), listingID)
	if err != nil {
		return fmt.Errorf("close listing %s: %w", listingID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("close listing %s: %w", listingID, err)
	}
	// RowsAffected is 0 both for a missing row and for a repeated close
	// with identical values, so confirm existence explicitly.
	if affected == 0 {
		var exists int
		err := r.db.QueryRow(`SELECT 1 FROM listings WHERE id = ?`, listingID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("close listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
		}
		if err != nil {
			return fmt.Errorf("close listing %s: %w", listingID, err)
		}
	}
	return nil
}

// GetCurrentBid returns the standing bid for a listing
func (r *MySQLRepo) GetCurrentBid(listingID string) (model.Bid, error) {
	var currentBidID sql.NullString
	err := r.db.QueryRow(`SELECT current_bid_id FROM listings WHERE id = ?`, listingID).Scan(&currentBidID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("get current bid for listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("get current bid for listing %s: %w", listingID, err)
	}
	if !currentBidID.Valid || currentBidID.String == "" {
		return model.Bid{}, fmt.Errorf("get current bid for listing %s: %w", listingID, auctionerrors.ErrNoBids)
	}

	var bid model.Bid
	err = r.db.QueryRow(
		`SELECT id, listing_id, user_id, amount, created_at FROM bids WHERE id = ?`, currentBidID.String).
		Scan(&bid.BidID, &bid.ListingID, &bid.UserID, &bid.Amount, &bid.CreatedAt)
	if err != nil {
		return model.Bid{}, fmt.Errorf("get current bid for listing %s: %w", listingID, err)
	}
	return bid, nil
}

// ReplaceCurrentBid atomically installs bid as the listing's standing bid.
// The listing row is locked for the duration of the transaction, so two
// concurrent bidders serialize here and the loser fails the expectBidID
// comparison with ErrBidSuperseded.
func (r *MySQLRepo) ReplaceCurrentBid(listingID string, bid model.Bid, expectBidID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("replace bid for listing %s: %w", listingID, err)
	}
	defer tx.Rollback()

	var currentBidID sql.NullString
	err = tx.QueryRow(`SELECT current_bid_id FROM listings WHERE id = ? FOR UPDATE`, listingID).Scan(&currentBidID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("replace bid for listing %s: %w", listingID, auctionerrors.ErrListingNotFound)
	}
	if err != nil {
		return fmt.Errorf("replace bid for listing %s: %w", listingID, err)
	}
	if currentBidID.String != expectBidID {
		return fmt.Errorf("replace bid for listing %s: %w", listingID, auctionerrors.ErrBidSuperseded)
	}

	if expectBidID != "" {
		if _, err := tx.Exec(`DELETE FROM bids WHERE id = ?`, expectBidID); err != nil {
			return fmt.Errorf("replace bid for listing %s: %w", listingID, err)
		}
	}
	if _, err := tx.Exec(
		`INSERT INTO bids (id, listing_id, user_id, amount, created_at) VALUES (?, ?, ?, ?, ?)`,
		bid.BidID, bid.ListingID, bid.UserID, bid.Amount, bid.CreatedAt); err != nil {
		return fmt.Errorf("replace bid for listing %s: %w", listingID, err)
	}
	if _, err := tx.Exec(`UPDATE listings SET current_bid_id = ? WHERE id = ?`, bid.BidID, listingID); err != nil {
		return fmt.Errorf("replace bid for listing %s: %w", listingID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace bid for listing %s: %w", listingID, err)
	}
	return nil
}

// AddToWatchlist adds the user to the listing's watcher set (idempotent)
func (r *MySQLRepo) AddToWatchlist(listingID, userID string) error {
	if err := r.requireListing(listingID, "add watch"); err != nil {
		return err
	}
	_, err := r.db.Exec(`INSERT IGNORE INTO watchlist (listing_id, user_id) VALUES (?, ?)`, listingID, userID)
	if err != nil {
		return fmt.Errorf("add watch on listing %s: %w", listingID, err)
	}
	return nil
}

// RemoveFromWatchlist removes the user from the listing's watcher set (idempotent)
func (r *MySQLRepo) RemoveFromWatchlist(listingID, userID string) error {
	if err := r.requireListing(listingID, "remove watch"); err != nil {
		return err
	}
	_, err := r.db.Exec(`DELETE FROM watchlist WHERE listing_id = ? AND user_id = ?`, listingID, userID)
	if err != nil {
		return fmt.Errorf("remove watch on listing %s: %w", listingID, err)
	}
	return nil
}

// GetWatchlist returns the active listings the user watches, ordered by title
func (r *MySQLRepo) GetWatchlist(userID string) ([]model.Listing, error) {
	return r.queryListings(
		`SELECT l.id, l.title, l.description, l.image_url, l.initial_price,
			l.category_id, l.current_bid_id, l.owner_id, l.winner_id, l.is_active, l.created_at
		FROM listings l
		JOIN watchlist w ON w.listing_id = l.id
		WHERE w.user_id = ? AND l.is_active = TRUE
		ORDER BY l.title`, userID)
}

// InWatchlist reports whether the user watches the listing
func (r *MySQLRepo) InWatchlist(listingID, userID string) (bool, error) {
	if err := r.requireListing(listingID, "check watch"); err != nil {
		return false, err
	}
	var exists int
	err := r.db.QueryRow(
		`SELECT 1 FROM watchlist WHERE listing_id = ? AND user_id = ?`, listingID, userID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check watch on listing %s: %w", listingID, err)
	}
	return true, nil
}

// CreateComment stores a new comment
func (r *MySQLRepo) CreateComment(comment model.Comment) error {
	if err := r.requireListing(comment.ListingID, "comment on"); err != nil {
		return err
	}
	_, err := r.db.Exec(
		`INSERT INTO comments (id, listing_id, user_id, text, created_at) VALUES (?, ?, ?, ?, ?)`,
		comment.CommentID, comment.ListingID, comment.UserID, comment.Text, comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("comment on listing %s: %w", comment.ListingID, err)
	}
	return nil
}

// GetCommentByID returns the comment with the given ID
func (r *MySQLRepo) GetCommentByID(commentID string) (model.Comment, error) {
	var c model.Comment
	err := r.db.QueryRow(
		`SELECT id, listing_id, user_id, text, created_at FROM comments WHERE id = ?`, commentID).
		Scan(&c.CommentID, &c.ListingID, &c.UserID, &c.Text, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Comment{}, fmt.Errorf("get comment %s: %w", commentID, auctionerrors.ErrCommentNotFound)
	}
	if err != nil {
		return model.Comment{}, fmt.Errorf("get comment %s: %w", commentID, err)
	}
	return c, nil
}

// GetCommentsByListing returns a listing's comments in chronological order
func (r *MySQLRepo) GetCommentsByListing(listingID string) ([]model.Comment, error) {
	rows, err := r.db.Query(
		`SELECT id, listing_id, user_id, text, created_at FROM comments WHERE listing_id = ? ORDER BY created_at`,
		listingID)
	if err != nil {
		return nil, fmt.Errorf("get comments for listing %s: %w", listingID, err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.CommentID, &c.ListingID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("get comments for listing %s: %w", listingID, err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes the comment with the given ID
func (r *MySQLRepo) DeleteComment(commentID string) error {
	res, err := r.db.Exec(`DELETE FROM comments WHERE id = ?`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment %s: %w", commentID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comment %s: %w", commentID, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete comment %s: %w", commentID, auctionerrors.ErrCommentNotFound)
	}
	return nil
}

func (r *MySQLRepo) requireListing(listingID, op string) error {
	var exists int
	err := r.db.QueryRow(`SELECT 1 FROM listings WHERE id = ?`, listingID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s listing %s: %w", op, listingID, auctionerrors.ErrListingNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s listing %s: %w", op, listingID, err)
	}
	return nil
}

func (r *MySQLRepo) queryListings(query string, args ...any) ([]model.Listing, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	listings := make([]model.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("query listings: %w", err)
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

func scanListing(scan func(...any) error) (model.Listing, error) {
	var (
		listing      model.Listing
		categoryID   sql.NullString
		currentBidID sql.NullString
		winnerID     sql.NullString
	)
	err := scan(&listing.ListingID, &listing.Title, &listing.Description, &listing.ImageURL,
		&listing.InitialPrice, &categoryID, &currentBidID, &listing.OwnerID, &winnerID,
		&listing.IsActive, &listing.CreatedAt)
	if err != nil {
		return model.Listing{}, err
	}
	listing.CategoryID = categoryID.String
	listing.CurrentBidID = currentBidID.String
	listing.WinnerID = winnerID.String
	return listing, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
