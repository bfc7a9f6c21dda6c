/*
Package sqlite provides the SQLite-backed implementation of the assessment
storage interfaces.

PURPOSE:
  Implements every persistence interface the domain defines
  (assessment.DirectoryStore, SettingsStore, ScheduleStore, ResponseStore,
  planner.Store) on a single SQLite database. In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  companies / sectors / roles / employees:  Organizational directory
  periodicity_settings:                     One row per company
  scheduled_assessments:                    The scheduling workflow state
  responses:                                Completed, classified responses
  action_plans:                             Planner output

DERIVED COLUMNS:
  responses.score and responses.level are written at completion time and
  never recomputed; scheduled_assessments.next_scheduled_date likewise.
  The database stores facts, the domain packages own the math.

INDEXES:
  - idx_scheduled_status_date: Due-assessment dispatch (hot path)
  - idx_responses_sector:      Sector risk rollups
  - idx_plans_sector_status:   Open-plan idempotency checks

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/psychorisk.db")
  if err != nil { log.Fatal(err) }
  defer store.Close()

SEE ALSO:
  - assessment/store.go: Interface definitions
  - assessment/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/aegis-hse/psychorisk/assessment"
	"github.com/aegis-hse/psychorisk/risk"
	"github.com/aegis-hse/psychorisk/schedule"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sectors (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		risk_attribute TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sectors_company ON sectors(company_id);

	CREATE TABLE IF NOT EXISTS roles (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		risk_attribute TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_roles_company ON roles(company_id);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT,
		role_id TEXT,
		sector_id TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_employees_company ON employees(company_id);

	CREATE TABLE IF NOT EXISTS periodicity_settings (
		company_id TEXT PRIMARY KEY,
		high_interval TEXT NOT NULL DEFAULT '',
		medium_interval TEXT NOT NULL DEFAULT '',
		low_interval TEXT NOT NULL DEFAULT '',
		default_interval TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS scheduled_assessments (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		title TEXT,
		scheduled_date TEXT NOT NULL,
		status TEXT NOT NULL,
		recurrence TEXT NOT NULL,
		next_scheduled_date TEXT,
		sent_at TEXT,
		completed_at TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scheduled_company ON scheduled_assessments(company_id);
	CREATE INDEX IF NOT EXISTS idx_scheduled_status_date ON scheduled_assessments(status, scheduled_date);

	CREATE TABLE IF NOT EXISTS responses (
		id TEXT PRIMARY KEY,
		scheduled_id TEXT NOT NULL,
		company_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		sector_id TEXT NOT NULL,
		item_scores TEXT NOT NULL,
		score TEXT NOT NULL,
		level TEXT NOT NULL,
		completed_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_responses_company ON responses(company_id);
	CREATE INDEX IF NOT EXISTS idx_responses_sector ON responses(sector_id);

	CREATE TABLE IF NOT EXISTS action_plans (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		sector_id TEXT NOT NULL,
		level TEXT NOT NULL,
		title TEXT,
		description TEXT,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_plans_company ON action_plans(company_id);
	CREATE INDEX IF NOT EXISTS idx_plans_sector_status ON action_plans(sector_id, status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENCODING HELPERS
// =============================================================================

const tsFormat = time.RFC3339

func encodeTimePtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(tsFormat), Valid: true}
}

func decodeTimePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := time.Parse(tsFormat, ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func encodeDatePtr(tp *schedule.TimePoint) sql.NullString {
	if tp == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: tp.String(), Valid: true}
}

func decodeDatePtr(ns sql.NullString) (*schedule.TimePoint, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	tp, err := schedule.ParseDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &tp, nil
}

// =============================================================================
// DIRECTORY
// =============================================================================

func (s *Store) SaveCompany(ctx context.Context, c assessment.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO companies (id, name, created_at) VALUES (?, ?, ?)`,
		string(c.ID), c.Name, c.CreatedAt.UTC().Format(tsFormat))
	return err
}

func (s *Store) GetCompany(ctx context.Context, id assessment.CompanyID) (*assessment.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM companies WHERE id = ?`, string(id))

	var c assessment.Company
	var createdAt string
	if err := row.Scan(&c.ID, &c.Name, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c.CreatedAt, _ = time.Parse(tsFormat, createdAt)
	return &c, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]assessment.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM companies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []assessment.Company
	for rows.Next() {
		var c assessment.Company
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(tsFormat, createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) SaveSector(ctx context.Context, sec assessment.Sector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sec.CreatedAt.IsZero() {
		sec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sectors (id, company_id, name, risk_attribute, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(sec.ID), string(sec.CompanyID), sec.Name, sec.RiskAttribute,
		sec.CreatedAt.UTC().Format(tsFormat))
	return err
}

func (s *Store) GetSector(ctx context.Context, id assessment.SectorID) (*assessment.Sector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx,
		`SELECT id, company_id, name, risk_attribute, created_at FROM sectors WHERE id = ?`, string(id))

	var sec assessment.Sector
	var createdAt string
	if err := row.Scan(&sec.ID, &sec.CompanyID, &sec.Name, &sec.RiskAttribute, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	sec.CreatedAt, _ = time.Parse(tsFormat, createdAt)
	return &sec, nil
}

func (s *Store) ListSectors(ctx context.Context, companyID assessment.CompanyID) ([]assessment.Sector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, name, risk_attribute, created_at FROM sectors
		 WHERE company_id = ? ORDER BY id`, string(companyID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []assessment.Sector
	for rows.Next() {
		var sec assessment.Sector
		var createdAt string
		if err := rows.Scan(&sec.ID, &sec.CompanyID, &sec.Name, &sec.RiskAttribute, &createdAt); err != nil {
			return nil, err
		}
		sec.CreatedAt, _ = time.Parse(tsFormat, createdAt)
		out = append(out, sec)
	}
	return out, rows.Err()
}

func (s *Store) SaveRole(ctx context.Context, r assessment.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO roles (id, company_id, name, risk_attribute, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(r.ID), string(r.CompanyID), r.Name, r.RiskAttribute,
		r.CreatedAt.UTC().Format(tsFormat))
	return err
}

func (s *Store) GetRole(ctx context.Context, id assessment.RoleID) (*assessment.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx,
		`SELECT id, company_id, name, risk_attribute, created_at FROM roles WHERE id = ?`, string(id))

	var r assessment.Role
	var createdAt string
	if err := row.Scan(&r.ID, &r.CompanyID, &r.Name, &r.RiskAttribute, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	r.CreatedAt, _ = time.Parse(tsFormat, createdAt)
	return &r, nil
}

func (s *Store) ListRoles(ctx context.Context, companyID assessment.CompanyID) ([]assessment.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, name, risk_attribute, created_at FROM roles
		 WHERE company_id = ? ORDER BY id`, string(companyID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []assessment.Role
	for rows.Next() {
		var r assessment.Role
		var createdAt string
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.Name, &r.RiskAttribute, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(tsFormat, createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) SaveEmployee(ctx context.Context, e assessment.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO employees (id, company_id, name, email, role_id, sector_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(e.ID), string(e.CompanyID), e.Name, e.Email,
		string(e.RoleID), string(e.SectorID), e.CreatedAt.UTC().Format(tsFormat))
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id assessment.EmployeeID) (*assessment.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx,
		`SELECT id, company_id, name, email, role_id, sector_id, created_at
		 FROM employees WHERE id = ?`, string(id))

	var e assessment.Employee
	var createdAt string
	if err := row.Scan(&e.ID, &e.CompanyID, &e.Name, &e.Email, &e.RoleID, &e.SectorID, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	e.CreatedAt, _ = time.Parse(tsFormat, createdAt)
	return &e, nil
}

func (s *Store) ListEmployees(ctx context.Context, companyID assessment.CompanyID) ([]assessment.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, name, email, role_id, sector_id, created_at
		 FROM employees WHERE company_id = ? ORDER BY id`, string(companyID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []assessment.Employee
	for rows.Next() {
		var e assessment.Employee
		var createdAt string
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.Name, &e.Email, &e.RoleID, &e.SectorID, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(tsFormat, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// PERIODICITY SETTINGS
// =============================================================================

func (s *Store) SaveSettings(ctx context.Context, ps schedule.PeriodicitySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO periodicity_settings
		 (company_id, high_interval, medium_interval, low_interval, default_interval)
		 VALUES (?, ?, ?, ?, ?)`,
		ps.CompanyID, string(ps.High), string(ps.Medium), string(ps.Low), string(ps.Default))
	return err
}

func (s *Store) GetSettings(ctx context.Context, companyID assessment.CompanyID) (*schedule.PeriodicitySettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx,
		`SELECT company_id, high_interval, medium_interval, low_interval, default_interval
		 FROM periodicity_settings WHERE company_id = ?`, string(companyID))

	var ps schedule.PeriodicitySettings
	var high, medium, low, def string
	if err := row.Scan(&ps.CompanyID, &high, &medium, &low, &def); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	ps.High = schedule.RecurrenceType(high)
	ps.Medium = schedule.RecurrenceType(medium)
	ps.Low = schedule.RecurrenceType(low)
	ps.Default = schedule.RecurrenceType(def)
	return &ps, nil
}

// =============================================================================
// SCHEDULED ASSESSMENTS
// =============================================================================

const scheduledColumns = `id, company_id, employee_id, title, scheduled_date, status,
	recurrence, next_scheduled_date, sent_at, completed_at, created_at`

func (s *Store) SaveScheduled(ctx context.Context, sa assessment.ScheduledAssessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sa.CreatedAt.IsZero() {
		sa.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO scheduled_assessments
		 (id, company_id, employee_id, title, scheduled_date, status, recurrence,
		  next_scheduled_date, sent_at, completed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(sa.ID), string(sa.CompanyID), string(sa.EmployeeID), sa.Title,
		sa.ScheduledDate.String(), string(sa.Status), string(sa.Recurrence),
		encodeDatePtr(sa.NextScheduledDate), encodeTimePtr(sa.SentAt), encodeTimePtr(sa.CompletedAt),
		sa.CreatedAt.UTC().Format(tsFormat))
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScheduled(scanner rowScanner) (*assessment.ScheduledAssessment, error) {
	var sa assessment.ScheduledAssessment
	var scheduledDate, status, recurrence, createdAt string
	var nextDate, sentAt, completedAt sql.NullString

	err := scanner.Scan(&sa.ID, &sa.CompanyID, &sa.EmployeeID, &sa.Title,
		&scheduledDate, &status, &recurrence, &nextDate, &sentAt, &completedAt, &createdAt)
	if err != nil {
		return nil, err
	}

	if sa.ScheduledDate, err = schedule.ParseDate(scheduledDate); err != nil {
		return nil, fmt.Errorf("corrupt scheduled_date %q: %w", scheduledDate, err)
	}
	sa.Status = assessment.Status(status)
	sa.Recurrence = schedule.RecurrenceType(recurrence)
	if sa.NextScheduledDate, err = decodeDatePtr(nextDate); err != nil {
		return nil, err
	}
	if sa.SentAt, err = decodeTimePtr(sentAt); err != nil {
		return nil, err
	}
	if sa.CompletedAt, err = decodeTimePtr(completedAt); err != nil {
		return nil, err
	}
	sa.CreatedAt, _ = time.Parse(tsFormat, createdAt)
	return &sa, nil
}

func (s *Store) GetScheduled(ctx context.Context, id assessment.ScheduledID) (*assessment.ScheduledAssessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx,
		`SELECT `+scheduledColumns+` FROM scheduled_assessments WHERE id = ?`, string(id))

	sa, err := scanScheduled(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return sa, err
}

func (s *Store) ListScheduled(ctx context.Context, companyID assessment.CompanyID) ([]assessment.ScheduledAssessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scheduledColumns+` FROM scheduled_assessments
		 WHERE company_id = ? ORDER BY scheduled_date, id`, string(companyID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScheduled(rows)
}

func (s *Store) ListDue(ctx context.Context, asOf schedule.TimePoint) ([]assessment.ScheduledAssessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scheduledColumns+` FROM scheduled_assessments
		 WHERE status = ? AND scheduled_date <= ? ORDER BY scheduled_date, id`,
		string(assessment.StatusScheduled), asOf.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectScheduled(rows)
}

func collectScheduled(rows *sql.Rows) ([]assessment.ScheduledAssessment, error) {
	var out []assessment.ScheduledAssessment
	for rows.Next() {
		sa, err := scanScheduled(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sa)
	}
	return out, rows.Err()
}

// =============================================================================
// RESPONSES
// =============================================================================

const responseColumns = `id, scheduled_id, company_id, employee_id, sector_id,
	item_scores, score, level, completed_at`

func (s *Store) SaveResponse(ctx context.Context, r assessment.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := json.Marshal(r.ItemScores)
	if err != nil {
		return fmt.Errorf("marshal item scores: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO responses
		 (id, scheduled_id, company_id, employee_id, sector_id, item_scores, score, level, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(r.ID), string(r.ScheduledID), string(r.CompanyID), string(r.EmployeeID),
		string(r.SectorID), string(items), r.Score.Value.String(), string(r.Level),
		r.CompletedAt.UTC().Format(tsFormat))
	return err
}

func scanResponse(scanner rowScanner) (*assessment.Response, error) {
	var r assessment.Response
	var items, score, level, completedAt string

	err := scanner.Scan(&r.ID, &r.ScheduledID, &r.CompanyID, &r.EmployeeID, &r.SectorID,
		&items, &score, &level, &completedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(items), &r.ItemScores); err != nil {
		return nil, fmt.Errorf("corrupt item_scores: %w", err)
	}
	d, err := decimal.NewFromString(score)
	if err != nil {
		return nil, fmt.Errorf("corrupt score %q: %w", score, err)
	}
	r.Score = risk.ScoreFromDecimal(d)
	r.Level = risk.Level(level)
	r.CompletedAt, _ = time.Parse(tsFormat, completedAt)
	return &r, nil
}

func (s *Store) ListResponses(ctx context.Context, companyID assessment.CompanyID) ([]assessment.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+responseColumns+` FROM responses WHERE company_id = ? ORDER BY id`,
		string(companyID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResponses(rows)
}

func (s *Store) ListResponsesBySector(ctx context.Context, sectorID assessment.SectorID) ([]assessment.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+responseColumns+` FROM responses WHERE sector_id = ? ORDER BY id`,
		string(sectorID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResponses(rows)
}

func collectResponses(rows *sql.Rows) ([]assessment.Response, error) {
	var out []assessment.Response
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// SectorClassifications returns the stored levels of a sector's responses.
// Consumed by the collective risk planner.
func (s *Store) SectorClassifications(ctx context.Context, sectorID assessment.SectorID) ([]risk.Level, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT level FROM responses WHERE sector_id = ?`, string(sectorID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []risk.Level
	for rows.Next() {
		var level string
		if err := rows.Scan(&level); err != nil {
			return nil, err
		}
		out = append(out, risk.Level(level))
	}
	return out, rows.Err()
}

// =============================================================================
// ACTION PLANS
// =============================================================================

func (s *Store) CreateActionPlan(ctx context.Context, p assessment.ActionPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO action_plans (id, company_id, sector_id, level, title, description, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), string(p.CompanyID), string(p.SectorID), string(p.Level),
		p.Title, p.Description, string(p.Status), p.CreatedAt.UTC().Format(tsFormat))
	return err
}

func (s *Store) HasOpenActionPlan(ctx context.Context, sectorID assessment.SectorID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM action_plans WHERE sector_id = ? AND status = ?`,
		string(sectorID), string(assessment.ActionPlanOpen))

	var count int
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListActionPlans(ctx context.Context, companyID assessment.CompanyID) ([]assessment.ActionPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_id, sector_id, level, title, description, status, created_at
		 FROM action_plans WHERE company_id = ? ORDER BY id`, string(companyID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []assessment.ActionPlan
	for rows.Next() {
		var p assessment.ActionPlan
		var level, status, createdAt string
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.SectorID, &level, &p.Title,
			&p.Description, &status, &createdAt); err != nil {
			return nil, err
		}
		p.Level = risk.Level(level)
		p.Status = assessment.ActionPlanStatus(status)
		p.CreatedAt, _ = time.Parse(tsFormat, createdAt)
		out = append(out, p)
	}
	return out, rows.Err()
}
