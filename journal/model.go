package journal

// sqlite models

type TxRecord struct {
	Hash            string `gorm:"primary_key" json:"hash"`
	Sender          string `gorm:"index" json:"sender"`
	Entrypoint      string `json:"entrypoint"`
	Amount          uint64 `json:"amount"`
	State           string `json:"state"`
	BlockHash       string `json:"block_hash"`
	RejectReason    string `json:"reject_reason"`
	CreateTimestamp int64  `json:"create_timestamp"`
	UpdateTimestamp int64  `json:"update_timestamp"`
}
