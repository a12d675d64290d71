package model

// NoticeSeverity は通知の種別を表す。
type NoticeSeverity string

const (
	// NoticeSuccess は操作成功の通知。
	NoticeSuccess NoticeSeverity = "success"
	// NoticeError は検証・認可失敗の通知。
	NoticeError NoticeSeverity = "error"
)

// Notice はリダイレクトレスポンスに添付するユーザー向けの短い通知を表す。
// セッションに保持する可変状態ではなく、レスポンスごとの明示的なデータとして扱う。
type Notice struct {
	Severity NoticeSeverity
	Message  string
}
