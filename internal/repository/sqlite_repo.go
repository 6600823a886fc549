package repository

import (
	"carsurvey/internal/model"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteResponseRepo stores responses in a local SQLite file
type SQLiteResponseRepo struct {
	db *sql.DB
}

// NewSQLiteResponseRepo opens (creating if needed) the database at dbPath
func NewSQLiteResponseRepo(dbPath string) (*SQLiteResponseRepo, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer keeps appends ordered and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteResponseRepo{db: db}
	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return repo, nil
}

func (r *SQLiteResponseRepo) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS responses (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		age INTEGER,
		gender TEXT NOT NULL,
		has_license TEXT NOT NULL,
		is_first_car TEXT NOT NULL,
		drivetrain TEXT NOT NULL,
		fuel_concern TEXT NOT NULL,
		car_count INTEGER NOT NULL DEFAULT 0,
		make TEXT NOT NULL,
		model TEXT NOT NULL,
		outcome TEXT NOT NULL,
		submitted_at INTEGER NOT NULL
	);`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close releases the database handle
func (r *SQLiteResponseRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteResponseRepo) Append(ctx context.Context, resp *model.Response) error {
	if resp.ID == "" {
		resp.ID = uuid.New().String()
	}

	var age sql.NullInt64
	if resp.Age != nil {
		age = sql.NullInt64{Int64: int64(*resp.Age), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO responses (id, session_id, age, gender, has_license, is_first_car,
			drivetrain, fuel_concern, car_count, make, model, outcome, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		resp.ID, resp.SessionID, age, string(resp.Gender), string(resp.HasLicense),
		string(resp.IsFirstCar), string(resp.Drivetrain), string(resp.FuelConcern),
		resp.CarCount, resp.Make, resp.Model, string(resp.Outcome), resp.SubmittedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

func (r *SQLiteResponseRepo) List(ctx context.Context) ([]*model.Response, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, age, gender, has_license, is_first_car,
			drivetrain, fuel_concern, car_count, make, model, outcome, submitted_at
		FROM responses ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	responses := []*model.Response{}
	for rows.Next() {
		var (
			resp        model.Response
			age         sql.NullInt64
			gender      string
			hasLicense  string
			isFirstCar  string
			drivetrain  string
			fuelConcern string
			outcome     string
			submittedAt int64
		)
		if err := rows.Scan(
			&resp.ID, &resp.SessionID, &age, &gender, &hasLicense, &isFirstCar,
			&drivetrain, &fuelConcern, &resp.CarCount, &resp.Make, &resp.Model, &outcome, &submittedAt,
		); err != nil {
			return nil, fmt.Errorf("scan response row: %w", err)
		}

		if age.Valid {
			a := int(age.Int64)
			resp.Age = &a
		}
		resp.Gender = model.Gender(gender)
		resp.HasLicense = model.YesNo(hasLicense)
		resp.IsFirstCar = model.YesNo(isFirstCar)
		resp.Drivetrain = model.Drivetrain(drivetrain)
		resp.FuelConcern = model.YesNo(fuelConcern)
		resp.Outcome = model.Outcome(outcome)
		resp.SubmittedAt = time.Unix(0, submittedAt).UTC()
		responses = append(responses, &resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}
	return responses, nil
}
