package summarizer

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		"%s: %s %dx%d, %d frames, %s, loop %s, %s":                     "%s: %s %dx%d, %d フレーム, %s, ループ %s, %s",
		"FRAME\tBOUNDS\tDELAY\tPLAYED\tDISPOSAL\tPALETTE\tTRANSPARENT": "フレーム\t範囲\t遅延\t再生\t破棄方法\tパレット\t透過",

		"Generated at %s":   "生成日時 %s",
		"Container":         "コンテナ",
		"Item":              "項目",
		"Value":             "値",
		"Version":           "バージョン",
		"Canvas":            "キャンバス",
		"Frames":            "フレーム",
		"Loop":              "ループ",
		"File size":         "ファイルサイズ",
		"Declared duration": "宣言上の長さ",
		"Played duration":   "再生時の長さ",

		"forever": "無限",
		"once":    "1回",
	})
}
