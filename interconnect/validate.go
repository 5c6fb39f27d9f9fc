package interconnect

import "github.com/tgsim/tgsim/payload"

// validate applies the two non-fatal runtime-validation rules from spec.md
// §7 item 3: byte-enable is not implemented, and the declared streaming
// width must not exceed the data actually available. It mutates txn's
// Response field and reports whether the transaction may proceed; an
// invalid transaction is left for the caller to drop (not freed here,
// since the caller owns the reference it holds).
func validate(txn *payload.Transaction) bool {
	if txn.ByteEnable {
		txn.Response = payload.RespByteEnableUnsupported
		return false
	}
	if txn.StreamingWidth > txn.Data.Len {
		txn.Response = payload.RespStreamingWidthMismatch
		return false
	}
	txn.Response = payload.RespOK
	return true
}
