package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jsphweid/tabdex/bucket"
	"github.com/jsphweid/tabdex/model"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

const notesSep = " "

// Store is the chord index: songs and their labelled beats.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the index at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one writer at a time; the pipeline writes from several workers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// PutSong replaces everything indexed for fileNum with the song's
// labelled beats.
func (s *Store) PutSong(fileNum uint32, name string, song *model.Song) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM songs WHERE file_num = ?", fileNum); err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	_, err = tx.Exec(
		"INSERT INTO songs (file_num, name, title, artist, instrument, measures) VALUES (?, ?, ?, ?, ?, ?)",
		fileNum, name, song.Title, song.Artist, song.Instrument, len(song.Measures),
	)
	if err != nil {
		return fmt.Errorf("insert song: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO occurrences (file_num, label, measure, beat, notes, voicing) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare occurrence: %w", err)
	}
	defer stmt.Close()

	for _, o := range bucket.Flatten(bucket.Collect(fileNum, song)) {
		if _, err := stmt.Exec(o.FileNum, o.Label, o.Measure, o.Beat, strings.Join(o.Notes, notesSep), o.Voicing); err != nil {
			return fmt.Errorf("insert occurrence: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// FindChord pages through occurrences of a chord label in index order.
// A non-empty voicing narrows the search to that exact voicing.
func (s *Store) FindChord(label, voicing string, limit, offset int) ([]model.ChordOccurrence, error) {
	rows, err := s.db.Query(
		`SELECT file_num, label, measure, beat, notes, voicing FROM occurrences
		WHERE label = ? AND (? = '' OR voicing = ?)
		ORDER BY file_num, measure, beat LIMIT ? OFFSET ?`,
		label, voicing, voicing, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("find chord: %w", err)
	}
	defer rows.Close()

	var res []model.ChordOccurrence
	for rows.Next() {
		var o model.ChordOccurrence
		var notes string
		if err := rows.Scan(&o.FileNum, &o.Label, &o.Measure, &o.Beat, &notes, &o.Voicing); err != nil {
			return nil, fmt.Errorf("scan occurrence: %w", err)
		}
		if notes != "" {
			o.Notes = strings.Split(notes, notesSep)
		}
		res = append(res, o)
	}
	return res, rows.Err()
}

// CountChord returns how many beats carry the label (and voicing, when
// one is given).
func (s *Store) CountChord(label, voicing string) (int, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM occurrences WHERE label = ? AND (? = '' OR voicing = ?)",
		label, voicing, voicing,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count chord: %w", err)
	}
	return n, nil
}

// LabelCounts lists labels by descending frequency. limit <= 0 means all.
func (s *Store) LabelCounts(limit int) ([]model.LabelCount, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT label, COUNT(*) AS n FROM occurrences
		GROUP BY label ORDER BY n DESC, label LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("label counts: %w", err)
	}
	defer rows.Close()

	var res []model.LabelCount
	for rows.Next() {
		var lc model.LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, fmt.Errorf("scan label count: %w", err)
		}
		res = append(res, lc)
	}
	return res, rows.Err()
}

// SongName returns the score filename indexed under fileNum.
func (s *Store) SongName(fileNum uint32) (string, error) {
	var name string
	err := s.db.QueryRow("SELECT name FROM songs WHERE file_num = ?", fileNum).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("song name: %w", err)
	}
	return name, nil
}

// CountSongs returns the number of indexed songs.
func (s *Store) CountSongs() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM songs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return n, nil
}
