package journalverify

import (
	"strings"

	"koralai-host/internal/domain/model"
)

// FailureItem 是一条校验失败的明细，供 CLI / PDF 报告展示。
type FailureItem struct {
	Index      int    `json:"index"`
	LaunchID   string `json:"launch_id"`
	OccurredAt int64  `json:"occurred_at"`

	PrevHashMismatch bool   `json:"prev_hash_mismatch"`
	ExpectedPrevHash string `json:"expected_prev_hash,omitempty"`
	ActualPrevHash   string `json:"actual_prev_hash,omitempty"`

	ChainHashMismatch bool   `json:"chain_hash_mismatch"`
	ExpectedChainHash string `json:"expected_chain_hash,omitempty"`
	ActualChainHash   string `json:"actual_chain_hash,omitempty"`

	Message string `json:"message,omitempty"`
}

// Result 是启动日志链的校验结果。
type Result struct {
	OK              bool          `json:"ok"`
	Total           int           `json:"total"`
	Failed          int           `json:"failed"`
	PrevHashFailed  int           `json:"prev_hash_failed"`
	ChainHashFailed int           `json:"chain_hash_failed"`
	LastChainHash   string        `json:"last_chain_hash,omitempty"`
	Failures        []FailureItem `json:"failures,omitempty"`
}

// Verify 校验启动日志链：
// 1) chain_prev_hash 必须等于上一条的 chain_hash（第一条为空串）
// 2) chain_hash 必须等于按 LaunchRecord.ComputeChainHash 重算的值
//
// records 必须是完整历史（按 seq 正序），截断的窗口会在第一条报 prev 不一致。
func Verify(records []model.LaunchRecord) Result {
	res := Result{
		OK:       true,
		Total:    len(records),
		Failures: []FailureItem{},
	}

	prev := ""
	for i, rec := range records {
		expectedPrev := prev
		actualPrev := strings.TrimSpace(rec.ChainPrevHash)
		expectedChain := rec.ComputeChainHash(expectedPrev)
		actualChain := strings.TrimSpace(rec.ChainHash)

		prevMismatch := actualPrev != expectedPrev
		chainMismatch := actualChain != expectedChain

		if prevMismatch || chainMismatch {
			res.OK = false
			res.Failed++
			if prevMismatch {
				res.PrevHashFailed++
			}
			if chainMismatch {
				res.ChainHashFailed++
			}

			var msg string
			switch {
			case prevMismatch && chainMismatch:
				msg = "chain_prev_hash and chain_hash mismatch"
			case prevMismatch:
				msg = "chain_prev_hash mismatch"
			default:
				msg = "chain_hash mismatch"
			}

			res.Failures = append(res.Failures, FailureItem{
				Index:      i,
				LaunchID:   rec.LaunchID,
				OccurredAt: rec.OccurredAt,

				PrevHashMismatch: prevMismatch,
				ExpectedPrevHash: expectedPrev,
				ActualPrevHash:   actualPrev,

				ChainHashMismatch: chainMismatch,
				ExpectedChainHash: expectedChain,
				ActualChainHash:   actualChain,

				Message: msg,
			})
		}

		// 以库里记录的 chain_hash 推进，篡改点之后的记录仍能继续定位。
		prev = actualChain
		res.LastChainHash = actualChain
	}

	return res
}
