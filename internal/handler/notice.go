package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/todoman/internal/model"
)

// noticeCookieName はフラッシュ通知を保持するCookieの名前。
// 通知はセッションの状態ではなく、1回のリダイレクトだけ生きる
// 明示的なCookieとして運ぶ。
const noticeCookieName = "notice"

// noticeMaxAge はフラッシュ通知Cookieの有効期間（秒）。
// リダイレクト直後のGETで消費される前提の短命Cookie。
const noticeMaxAge = 60

// setNotice は次のリクエストで表示するフラッシュ通知をCookieに書き込む。
func setNotice(w http.ResponseWriter, secure bool, n *model.Notice) {
	payload, err := json.Marshal(n)
	if err != nil {
		// Noticeは単純な構造体なのでここには到達しない
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		MaxAge:   noticeMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// popNotice はフラッシュ通知Cookieを読み取り、同時に削除する。
// Cookieが存在しない、または復号できない場合はnilを返す。
func popNotice(w http.ResponseWriter, r *http.Request, secure bool) *model.Notice {
	cookie, err := r.Cookie(noticeCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	// 通知は一度表示したら消す
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var n model.Notice
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil
	}
	return &n
}

// redirectWithNotice はフラッシュ通知を設定してリダイレクトする。
// フォームPOST後の二重送信を防ぐため303 See Otherを使う。
func redirectWithNotice(w http.ResponseWriter, r *http.Request, secure bool, location string, n *model.Notice) {
	setNotice(w, secure, n)
	http.Redirect(w, r, location, http.StatusSeeOther)
}
