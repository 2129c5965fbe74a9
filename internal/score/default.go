package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"git.lost.host/meutraa/trg/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

type DefaultStore struct {
	Path string

	db *sql.DB
}

// InputsCompact holds the input times of one track. Times alternate between
// press and release, starting with a press.
type InputsCompact struct {
	Track int
	Times []time.Duration
}

func compactInputs(inputs []game.Input) []InputsCompact {
	trackCount := 0
	for _, i := range inputs {
		if i.Track >= trackCount {
			trackCount = i.Track + 1
		}
	}
	ins := make([]InputsCompact, trackCount)
	for t := range ins {
		ins[t] = InputsCompact{Track: t, Times: []time.Duration{}}
	}
	for _, i := range inputs {
		c := &ins[i.Track]
		pressing := len(c.Times)%2 == 0
		if pressing != (i.Action == game.Press) {
			// repeated press or release, the track state does not change
			continue
		}
		c.Times = append(c.Times, i.At)
	}
	return ins
}

func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, c := range inputs {
		for j, t := range c.Times {
			action := game.Press
			if j%2 == 1 {
				action = game.Release
			}
			ins = append(ins, game.Input{Track: c.Track, Action: action, At: t})
		}
	}
	sort.SliceStable(ins, func(i, j int) bool {
		return ins[i].At < ins[j].At
	})
	return ins
}

func (s *DefaultStore) Init() error {
	path := s.Path
	if path == "" {
		path = "./scores.db"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("unable to open score database: %w", err)
	}

	initStatement := `
	create table if not exists highscores
	  (
		  chart_id text not null primary key,
		  sum text,
		  score integer,
		  grade text,
		  max_combo integer,
		  perfect integer,
		  good integer,
		  miss integer,
		  difficulty text,
		  accuracy real,
		  played_at integer
	  );
	create table if not exists plays
	  (
		  id integer not null primary key,
		  sum text,
		  difficulty text,
		  inputs blob,
		  played_at integer
	  );
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return fmt.Errorf("unable to create score tables: %w", err)
	}

	s.db = db
	return nil
}

func (s *DefaultStore) Deinit() {
	if nil != s.db {
		s.db.Close()
		s.db = nil
	}
}

// HashChart identifies a chart by its notes, so edits to a chart do not
// inherit the history of the old version
func HashChart(c *game.Chart) string {
	data, err := json.Marshal(c.Notes)
	if nil != err {
		log.Println("unable to marshal chart notes", err)
	}
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *DefaultStore) Save(rec Record) (bool, error) {
	if nil == s.db {
		return false, ErrClosed
	}
	tx, err := s.db.Begin()
	if nil != err {
		return false, fmt.Errorf("unable to save score: %w", err)
	}
	defer tx.Rollback()

	var best int
	err = tx.QueryRow("select score from highscores where chart_id = ?", rec.ChartID).Scan(&best)
	switch {
	case err == sql.ErrNoRows:
	case nil != err:
		return false, fmt.Errorf("unable to load best score: %w", err)
	case best >= rec.Score:
		log.Printf("not a new best for %s: %d, best %d", rec.ChartID, rec.Score, best)
		return false, nil
	}

	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now()
	}
	_, err = tx.Exec(`insert or replace into highscores
		(chart_id, sum, score, grade, max_combo, perfect, good, miss, difficulty, accuracy, played_at)
		values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ChartID, rec.Sum, rec.Score, rec.Grade, rec.MaxCombo, rec.Perfect, rec.Good, rec.Miss,
		rec.Difficulty, rec.Accuracy, rec.PlayedAt.Unix())
	if nil != err {
		return false, fmt.Errorf("unable to save score: %w", err)
	}
	if err = tx.Commit(); nil != err {
		return false, fmt.Errorf("unable to save score: %w", err)
	}
	log.Printf("saved new best for %s: %d (grade %s)", rec.ChartID, rec.Score, rec.Grade)
	return true, nil
}

const recordColumns = `chart_id, sum, score, grade, max_combo, perfect, good, miss, difficulty, accuracy, played_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var playedAt int64
	err := row.Scan(&rec.ChartID, &rec.Sum, &rec.Score, &rec.Grade, &rec.MaxCombo,
		&rec.Perfect, &rec.Good, &rec.Miss, &rec.Difficulty, &rec.Accuracy, &playedAt)
	rec.PlayedAt = time.Unix(playedAt, 0)
	return rec, err
}

func (s *DefaultStore) Best(chartID string) (Record, bool, error) {
	if nil == s.db {
		return Record{}, false, ErrClosed
	}
	row := s.db.QueryRow("select "+recordColumns+" from highscores where chart_id = ?", chartID)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if nil != err {
		return Record{}, false, fmt.Errorf("unable to load best score: %w", err)
	}
	return rec, true, nil
}

// All returns the best of every chart, highest score first
func (s *DefaultStore) All() ([]Record, error) {
	if nil == s.db {
		return nil, ErrClosed
	}
	rows, err := s.db.Query("select " + recordColumns + " from highscores order by score desc, chart_id")
	if nil != err {
		return nil, fmt.Errorf("unable to load scores: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if nil != err {
			log.Println("unable to scan score", err)
			continue
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *DefaultStore) Delete(chartID string) (bool, error) {
	if nil == s.db {
		return false, ErrClosed
	}
	res, err := s.db.Exec("delete from highscores where chart_id = ?", chartID)
	if nil != err {
		return false, fmt.Errorf("unable to delete score: %w", err)
	}
	n, err := res.RowsAffected()
	if nil != err {
		return false, err
	}
	return n > 0, nil
}

func (s *DefaultStore) Clear() error {
	if nil == s.db {
		return ErrClosed
	}
	if _, err := s.db.Exec("delete from highscores"); nil != err {
		return fmt.Errorf("unable to clear scores: %w", err)
	}
	return nil
}

func (s *DefaultStore) SaveInputs(sum string, d game.Difficulty, inputs []game.Input) error {
	if nil == s.db {
		return ErrClosed
	}
	data, err := json.Marshal(compactInputs(inputs))
	if nil != err {
		return fmt.Errorf("unable to marshal inputs: %w", err)
	}
	_, err = s.db.Exec("insert into plays(sum, difficulty, inputs, played_at) values(?, ?, ?, ?)", sum, d.String(), data, time.Now().Unix())
	if nil != err {
		return fmt.Errorf("unable to save inputs: %w", err)
	}
	return nil
}

func (s *DefaultStore) Load(sum string) ([]History, error) {
	if nil == s.db {
		return nil, ErrClosed
	}
	histories := []History{}
	rows, err := s.db.Query("select sum, difficulty, inputs, played_at from plays where sum = ? order by id", sum)
	if nil != err {
		return histories, fmt.Errorf("unable to load inputs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var h History
		var difficulty string
		var data []byte
		var playedAt int64
		if err := rows.Scan(&h.Sum, &difficulty, &data, &playedAt); nil != err {
			log.Println("unable to scan input history", err)
			continue
		}
		var ins []InputsCompact
		if err := json.Unmarshal(data, &ins); nil != err {
			log.Println("unable to unmarshal input history", err)
			continue
		}
		if h.Difficulty, err = game.ParseDifficulty(difficulty); nil != err {
			log.Println(err)
		}
		h.Inputs = uncompactInputs(ins)
		h.PlayedAt = time.Unix(playedAt, 0)
		histories = append(histories, h)
	}
	return histories, rows.Err()
}
