package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/engine"
)

type gameRecord struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null;index"`
	Description string
	MaxPlayers  int
	Pieces      string `gorm:"type:text;not null"` // JSON map of piece id to piece
	Assets      string `gorm:"type:text;not null"` // JSON map of asset name to data
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (gameRecord) TableName() string { return "games" }

// DBStore keeps published games in Postgres.
type DBStore struct {
	db *gorm.DB
}

func OpenDB(dsn string) (*DBStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	return NewDBStore(db)
}

func NewDBStore(db *gorm.DB) (*DBStore, error) {
	if err := db.AutoMigrate(&gameRecord{}); err != nil {
		return nil, fmt.Errorf("migrate games: %w", err)
	}
	return &DBStore{db: db}, nil
}

// Publish validates g and inserts or replaces it.
func (s *DBStore) Publish(ctx context.Context, g engine.Game) error {
	if err := Validate(g); err != nil {
		return err
	}
	pieces, err := json.Marshal(g.Pieces)
	if err != nil {
		return err
	}
	assets, err := json.Marshal(g.Assets)
	if err != nil {
		return err
	}
	rec := gameRecord{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		MaxPlayers:  g.MaxPlayers,
		Pieces:      string(pieces),
		Assets:      string(assets),
	}
	return s.db.WithContext(ctx).Save(&rec).Error
}

func (s *DBStore) Get(ctx context.Context, id string) (engine.Game, error) {
	var rec gameRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.Game{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return engine.Game{}, err
	}

	g := engine.Game{ID: rec.ID, Name: rec.Name, Description: rec.Description, MaxPlayers: rec.MaxPlayers}
	if err := json.Unmarshal([]byte(rec.Pieces), &g.Pieces); err != nil {
		return engine.Game{}, fmt.Errorf("%w: %s pieces: %v", ErrInvalidGame, id, err)
	}
	if err := json.Unmarshal([]byte(rec.Assets), &g.Assets); err != nil {
		return engine.Game{}, fmt.Errorf("%w: %s assets: %v", ErrInvalidGame, id, err)
	}
	return g, nil
}

func (s *DBStore) List(ctx context.Context) ([]Summary, error) {
	var recs []gameRecord
	err := s.db.WithContext(ctx).
		Select("id", "name", "description", "max_players").
		Order("name, id").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(recs))
	for _, r := range recs {
		out = append(out, summarize(engine.Game{ID: r.ID, Name: r.Name, Description: r.Description, MaxPlayers: r.MaxPlayers}))
	}
	return out, nil
}

func (s *DBStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&gameRecord{ID: id}).Error
}

func (s *DBStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
