package journal

import (
	"errors"
	"math"
	"time"

	"github.com/calehh/charity-dao/tx"
	"github.com/calehh/charity-dao/types"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

const (
	StateSubmitted = "submitted"
	StatePending   = "pending"
)

var (
	ErrNotFound    = errors.New("transaction not found")
	ErrInvalidPage = errors.New("invalid page")
)

// Journal is the local history of transactions sent from this client. It
// never holds contract state.
type Journal struct {
	logger cmtlog.Logger
	db     *gorm.DB
}

func Open(dbPath string, logger cmtlog.Logger) (*Journal, error) {
	logger.Info("open journal", "dbPath", dbPath)
	db, err := gorm.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&TxRecord{}).Error; err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{
		logger: logger.With("module", "journal"),
		db:     db,
	}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) RecordSubmitted(hash types.TxHash, sender string, ep tx.Entrypoint, amount uint64) error {
	now := time.Now().Unix()
	rec := TxRecord{
		Hash:            hash.String(),
		Sender:          sender,
		Entrypoint:      ep.String(),
		Amount:          amount,
		State:           StateSubmitted,
		CreateTimestamp: now,
		UpdateTimestamp: now,
	}
	return j.db.Save(&rec).Error
}

// RecordOutcome updates the state of hash. Transactions submitted elsewhere get
// a record of their own.
func (j *Journal) RecordOutcome(hash types.TxHash, state string, block types.BlockHash, reason string) error {
	now := time.Now().Unix()
	rec := TxRecord{}
	if err := j.db.Where("hash = ?", hash.String()).First(&rec).Error; err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			return err
		}
		rec = TxRecord{Hash: hash.String(), CreateTimestamp: now}
	}
	rec.State = state
	if !block.IsZero() {
		rec.BlockHash = block.String()
	}
	rec.RejectReason = reason
	rec.UpdateTimestamp = now
	return j.db.Save(&rec).Error
}

func (j *Journal) Get(hash types.TxHash) (*TxRecord, error) {
	rec := TxRecord{}
	if err := j.db.Where("hash = ?", hash.String()).First(&rec).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// List pages through the records of sender, newest first. An empty sender
// lists everything.
func (j *Journal) List(sender string, page int, pageSize int) ([]TxRecord, uint64, error) {
	if page < 0 || pageSize <= 0 || page > math.MaxInt/pageSize {
		return nil, 0, ErrInvalidPage
	}
	var total uint64
	records := []TxRecord{}
	q := j.db.Model(&TxRecord{})
	if sender != "" {
		q = q.Where("sender = ?", sender)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("create_timestamp desc").Order("hash").Offset(page * pageSize).Limit(pageSize).Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Unsettled returns the records still waiting for finalization.
func (j *Journal) Unsettled() ([]TxRecord, error) {
	records := []TxRecord{}
	err := j.db.Where("state IN (?)", []string{StateSubmitted, StatePending}).Order("create_timestamp").Find(&records).Error
	return records, err
}
