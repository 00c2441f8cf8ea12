package store

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"gradebook/internal/model"
)

// RecordRow is the database row for a record. ID preserves insertion order.
type RecordRow struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	SessionID string `gorm:"index;not null"`
	Name      string
	Roll      string
	Marks     string `gorm:"not null"`
	Policy    string `gorm:"not null"`
}

func (RecordRow) TableName() string {
	return "records"
}

// GormStore keeps one session's records in the records table.
type GormStore struct {
	db        *gorm.DB
	sessionID string
}

func NewGormStore(db *gorm.DB, sessionID string) *GormStore {
	return &GormStore{db: db, sessionID: sessionID}
}

// GormFactory returns a Factory scoping each new store to its session id.
func GormFactory(db *gorm.DB) Factory {
	return func(sessionID string) Store { return NewGormStore(db, sessionID) }
}

func (s *GormStore) Add(rec model.Record) error {
	row := RecordRow{
		SessionID: s.sessionID,
		Name:      rec.Name,
		Roll:      rec.Roll,
		Marks:     model.FormatMarks(rec.Marks()),
		Policy:    rec.Policy.String(),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return errors.Wrap(err, "insert record")
	}
	return nil
}

func (s *GormStore) Records() ([]model.Record, error) {
	var rows []RecordRow
	if err := s.scoped().Order("id asc").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "load records")
	}

	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := fromRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "decode record %d", row.ID)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *GormStore) Len() (int, error) {
	var count int64
	if err := s.scoped().Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count records")
	}
	return int(count), nil
}

func (s *GormStore) Clear() error {
	err := s.db.Where("session_id = ?", s.sessionID).Delete(&RecordRow{}).Error
	return errors.Wrap(err, "clear records")
}

func (s *GormStore) scoped() *gorm.DB {
	return s.db.Model(&RecordRow{}).Where("session_id = ?", s.sessionID)
}

func fromRow(row RecordRow) (model.Record, error) {
	marks, err := model.ParseMarksLiteral(row.Marks)
	if err != nil {
		return model.Record{}, err
	}
	policy, err := model.ParsePolicy(row.Policy)
	if err != nil {
		return model.Record{}, err
	}
	return model.NewRecord(row.Name, row.Roll, marks, policy)
}
