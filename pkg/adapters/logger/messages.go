package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Decode stage
		"Decoding %s (%d bytes)":       "%s をデコード中 (%d バイト)",
		"Decoded %s: %dx%d, %d frames": "%s をデコードしました: %dx%d, %d フレーム",

		// Extract stage
		"Extracting frames %d to %d (%d frames)": "フレーム %d から %d を抽出中 (%d フレーム)",

		// Encode stage
		"Encoding %d frames (%dx%d)": "%d フレームをエンコード中 (%dx%d)",
		"Clip encoded: %d bytes":     "クリップのエンコード完了: %d バイト",

		// Playback
		"Playing from frame %d": "フレーム %d から再生",
		"Paused at frame %d":    "フレーム %d で一時停止",

		// Workspace
		"Reusing decoded %s":          "デコード済みの %s を再利用します",
		"Loaded %s as instance %d":    "%s をインスタンス %d として読み込みました",
		"Cutting %s: frames %d to %d": "%s を切り出し中: フレーム %d から %d",
		"Cut ready: %s":               "切り出し完了: %s",
		"Cut cancelled for %s":        "%s の切り出しをキャンセルしました",
		"Removed %s":                  "%s を削除しました",

		// Drop folder
		"Watching %s":                 "%s を監視中",
		"Detected %s":                 "%s を検出しました",
		"Ignoring %s: not a GIF file": "%s を無視します: GIF ファイルではありません",

		// Warnings
		"Failed to paint frame %d: %v":    "フレーム %d の描画に失敗しました: %v",
		"Failed to save debug output: %v": "デバッグ出力の保存に失敗しました: %v",
		"Watch error: %v":                 "監視エラー: %v",

		// Errors
		"Failed to load %s: %v": "%s の読み込みに失敗しました: %v",
		"Cut failed for %s: %v": "%s の切り出しに失敗しました: %v",
	})
}
