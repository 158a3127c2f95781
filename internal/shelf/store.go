// Package shelf stores the user's personal reading list in SQLite.
// It is independent of the recommendation engine.
package shelf

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const entryColumns = `id, title, author, category, description, personal_rating, reading_status, tags, date_added`

// Store is a SQLite-backed shelf
type Store struct {
	db *sqlx.DB
}

// Open connects to the database at path, creating the schema if needed
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open shelf database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize shelf schema: %w", err)
	}

	slog.Debug("Shelf database opened", "path", path)
	return s, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS shelf (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			personal_rating REAL NOT NULL DEFAULT 0,
			reading_status TEXT NOT NULL DEFAULT 'unread',
			tags TEXT NOT NULL DEFAULT '',
			date_added DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shelf_date_added ON shelf(date_added)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts e and returns it with its id and date filled in
func (s *Store) Add(e Entry) (Entry, error) {
	e.Title = strings.TrimSpace(e.Title)
	e.Author = strings.TrimSpace(e.Author)
	if e.ReadingStatus == "" {
		e.ReadingStatus = StatusUnread
	}
	if err := validate(e); err != nil {
		return Entry{}, err
	}
	if e.DateAdded.IsZero() {
		e.DateAdded = time.Now().UTC()
	}

	res, err := s.db.NamedExec(`INSERT INTO shelf (title, author, category, description, personal_rating, reading_status, tags, date_added)
		VALUES (:title, :author, :category, :description, :personal_rating, :reading_status, :tags, :date_added)`, e)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to insert shelf entry: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return Entry{}, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return e, nil
}

// Get returns the entry with the given id
func (s *Store) Get(id int64) (Entry, error) {
	var e Entry
	err := s.db.Get(&e, `SELECT `+entryColumns+` FROM shelf WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get shelf entry: %w", err)
	}
	return e, nil
}

// List returns every entry, newest first
func (s *Store) List() ([]Entry, error) {
	entries := []Entry{}
	if err := s.db.Select(&entries, `SELECT `+entryColumns+` FROM shelf ORDER BY date_added DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("failed to list shelf: %w", err)
	}
	return entries, nil
}

// Search returns entries whose title, author or tags contain query, newest first
func (s *Store) Search(query string) ([]Entry, error) {
	term := "%" + escapeLike(query) + "%"
	entries := []Entry{}
	err := s.db.Select(&entries, `SELECT `+entryColumns+` FROM shelf
		WHERE title LIKE ? ESCAPE '\' OR author LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\'
		ORDER BY date_added DESC, id DESC`, term, term, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search shelf: %w", err)
	}
	return entries, nil
}

// Update applies p to the entry with the given id and returns the result
func (s *Store) Update(id int64, p Patch) (Entry, error) {
	current, err := s.Get(id)
	if err != nil {
		return Entry{}, err
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if p.Title != nil {
		current.Title = strings.TrimSpace(*p.Title)
		set("title", current.Title)
	}
	if p.Author != nil {
		current.Author = strings.TrimSpace(*p.Author)
		set("author", current.Author)
	}
	if p.Category != nil {
		current.Category = *p.Category
		set("category", current.Category)
	}
	if p.Description != nil {
		current.Description = *p.Description
		set("description", current.Description)
	}
	if p.PersonalRating != nil {
		current.PersonalRating = *p.PersonalRating
		set("personal_rating", current.PersonalRating)
	}
	if p.ReadingStatus != nil {
		current.ReadingStatus = *p.ReadingStatus
		set("reading_status", current.ReadingStatus)
	}
	if p.Tags != nil {
		current.Tags = *p.Tags
		set("tags", current.Tags)
	}
	if len(sets) == 0 {
		return current, nil
	}
	if err := validate(current); err != nil {
		return Entry{}, err
	}

	args = append(args, id)
	if _, err := s.db.Exec(`UPDATE shelf SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return Entry{}, fmt.Errorf("failed to update shelf entry: %w", err)
	}
	return current, nil
}

// Delete removes the entry with the given id
func (s *Store) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM shelf WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shelf entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats counts entries per reading status and averages the ratings that were given
func (s *Store) Stats() (Stats, error) {
	st := Stats{ByStatus: map[string]int{}}

	if err := s.db.Get(&st.Total, `SELECT COUNT(*) FROM shelf`); err != nil {
		return Stats{}, fmt.Errorf("failed to count shelf: %w", err)
	}

	var rows []struct {
		Status string `db:"reading_status"`
		Count  int    `db:"n"`
	}
	if err := s.db.Select(&rows, `SELECT reading_status, COUNT(*) AS n FROM shelf GROUP BY reading_status`); err != nil {
		return Stats{}, fmt.Errorf("failed to group shelf by status: %w", err)
	}
	for _, r := range rows {
		st.ByStatus[r.Status] = r.Count
	}

	var avg sql.NullFloat64
	if err := s.db.Get(&avg, `SELECT AVG(personal_rating) FROM shelf WHERE personal_rating > 0`); err != nil {
		return Stats{}, fmt.Errorf("failed to average shelf ratings: %w", err)
	}
	if avg.Valid {
		st.AverageRating = math.Round(avg.Float64*10) / 10
	}
	return st, nil
}

// Reset deletes every entry
func (s *Store) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM shelf`); err != nil {
		return fmt.Errorf("failed to reset shelf: %w", err)
	}
	return nil
}

func validate(e Entry) error {
	switch {
	case e.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidEntry)
	case e.Author == "":
		return fmt.Errorf("%w: author is required", ErrInvalidEntry)
	case e.PersonalRating < 0 || e.PersonalRating > 5:
		return fmt.Errorf("%w: personal rating must be between 0 and 5", ErrInvalidEntry)
	case !ValidStatus(e.ReadingStatus):
		return fmt.Errorf("%w: unknown reading status %q", ErrInvalidEntry, e.ReadingStatus)
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
