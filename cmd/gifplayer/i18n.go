// Package main provides localization for the gifplayer CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Play, scrub and cut animated GIFs":                "アニメーションGIFの再生・コマ送り・切り出し",
		"YAML or TOML configuration file":                  "YAML または TOML の設定ファイル",
		"Log level (debug, info, warn, error)":             "ログレベル (debug, info, warn, error)",
		"Suppress all log output":                          "すべてのログ出力を抑制",
		"Save decoded sequences, painted frames and clips": "デコード結果・描画フレーム・クリップを保存",
		"Directory for debug output":                       "デバッグ出力のディレクトリ",

		// Probe command
		"Show the header and frame table of a GIF": "GIF のヘッダーとフレーム一覧を表示",
		"Report format (text, markdown)":           "レポート形式 (text, markdown)",
		"Also write the report to this file":       "レポートをこのファイルにも書き出す",
		"Report written to %s":                     "レポートを %s に書き出しました",

		// Cut command
		"Cut a frame range into a new GIF (reversed when start > end)":    "フレーム範囲を新しい GIF に切り出し (開始 > 終了 で逆再生)",
		"First frame of the clip":                                         "クリップの最初のフレーム",
		"Last frame of the clip (-1 for the last frame)":                  "クリップの最後のフレーム (-1 で最終フレーム)",
		"Output GIF file path":                                            "出力 GIF ファイルパス",
		"Keep partial frames instead of compositing each onto the canvas": "各フレームをキャンバスに合成せず部分フレームのまま保持",
		"Frames compressed in parallel":                                   "並列に圧縮するフレーム数",
		"Output saved to %s (%d frames, %s)":                              "出力を %s に保存しました (%d フレーム, %s)",
		"Failed to write output: %v":                                      "出力の書き込みに失敗しました: %v",

		// Frames command
		"Export every composited frame as PNG": "合成済みの全フレームを PNG で書き出し",
		"Output directory":                     "出力ディレクトリ",
		"Wrote %d frames to %s":                "%d フレームを %s に書き出しました",

		// Play command
		"Play a GIF headlessly and report progress":    "GIF を画面なしで再生し進捗を表示",
		"How long to play (default: one loop)":         "再生時間 (既定: 1ループ)",
		"Painted %d frames in %v, stopped at frame %d": "%d フレームを %v で描画し、フレーム %d で停止しました",

		// Watch command
		"Load every GIF dropped into a directory":           "ディレクトリに置かれた GIF をすべて読み込み",
		"Also load GIFs already in the directory":           "ディレクトリ内の既存の GIF も読み込む",
		"Start playing each loaded GIF":                     "読み込んだ GIF を再生開始",
		"Refusing %d files: only .gif files can be dropped": "%d 個のファイルを拒否しました: .gif ファイルのみ受け付けます",
		"instance %d: %s (%dx%d, %d frames)":                "インスタンス %d: %s (%dx%d, %d フレーム)",
		"Skipping %s":                                       "%s をスキップします",
		"watch requires exactly one DIR argument":           "watch には DIR 引数が1つ必要です",

		// Version command
		"Show version information": "バージョン情報を表示",
		"gifplayer version %s":     "gifplayer バージョン %s",

		// Shared
		"%s: only .gif files are accepted":      "%s: .gif ファイルのみ受け付けます",
		"%s requires exactly one FILE argument": "%s には FILE 引数が1つ必要です",
		"Interrupted, shutting down...":         "中断されました。シャットダウン中...",
	})
}
