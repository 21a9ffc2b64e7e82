package dao

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lastday/internal/log"
)

var DB *gorm.DB

// ErrNotFound means no row matched.
var ErrNotFound = errors.New("dao: not found")

// Account is a registered player.
type Account struct {
	gorm.Model
	Username string `gorm:"type:varchar(32);uniqueIndex;not null"`
	Password string `gorm:"type:varchar(100);not null"` // 加密后的
	Level    int    `gorm:"not null;default:1"`
	Exp      int    `gorm:"not null;default:0"`
}

func (Account) TableName() string { return "ld_player_accounts" }

// Item is one stack in an account's inventory.
type Item struct {
	ID     uint   `gorm:"primaryKey"`
	UserID int64  `gorm:"uniqueIndex:idx_user_item;not null"`
	Name   string `gorm:"type:varchar(64);uniqueIndex:idx_user_item;not null"`
	Num    int    `gorm:"not null"`
}

func (Item) TableName() string { return "ld_player_items" }

// Kill is one entry of the kill history.
type Kill struct {
	gorm.Model
	RecordID   string `gorm:"type:varchar(64);uniqueIndex"`
	RoomID     string `gorm:"type:varchar(64);index"`
	KillerID   int64  `gorm:"index"`
	KillerName string `gorm:"type:varchar(32)"`
	VictimName string `gorm:"type:varchar(32)"`
	Weapon     int
	Timestamp  int64
}

func (Kill) TableName() string { return "ld_kill_history" }

// Open connects with the named driver, "postgres" or "mysql".
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	// 自动迁移表结构
	if err := db.AutoMigrate(&Account{}, &Item{}, &Kill{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func InitDB(driver, dsn string) {
	db, err := Open(driver, dsn)
	if err != nil {
		log.Fatal("database init failed", "driver", driver, "error", err)
	}
	DB = db
}

// Store is the gorm-backed persistence of accounts, inventories and kills.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) CreateAccount(ctx context.Context, a *Account) error {
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *Store) AccountByName(ctx context.Context, username string) (*Account, error) {
	var a Account
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) LoadItems(ctx context.Context, userID int64) (map[string]int, error) {
	var items []Item
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(items))
	for _, it := range items {
		out[it.Name] = it.Num
	}
	return out, nil
}

// SaveItem upserts the stack count; a count of zero or less deletes it.
func (s *Store) SaveItem(ctx context.Context, userID int64, name string, num int) error {
	db := s.db.WithContext(ctx)
	if num <= 0 {
		return db.Where("user_id = ? AND name = ?", userID, name).Delete(&Item{}).Error
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"num"}),
	}).Create(&Item{UserID: userID, Name: name, Num: num}).Error
}

// AddKill persists a kill; redelivered records are ignored.
func (s *Store) AddKill(ctx context.Context, k *Kill) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(k).Error
}

// KillsOf pages through a player's kills, newest first.
func (s *Store) KillsOf(ctx context.Context, userID int64, page, limit int) ([]Kill, error) {
	var kills []Kill
	offset := (page - 1) * limit
	err := s.db.WithContext(ctx).Where("killer_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&kills).Error
	return kills, err
}
