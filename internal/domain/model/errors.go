package model

import (
	"errors"
	"fmt"
)

// 1回の分類処理を打ち切る致命的エラー。部分成功やリトライは行わない。
// トークンのスキップ・穴の読み飛ばし・行のドロップなどのソフト条件はエラーにしない
var (
	// ErrNoPolygons 解析は成功したが使用可能なポリゴンが1つも無かった
	ErrNoPolygons = errors.New("KML内にポリゴンが見つかりません")

	// ErrNoHeader CSVにヘッダー行が存在しない
	ErrNoHeader = errors.New("CSVにヘッダー行がありません")

	// ErrNoValidPoints 全ての行が緯度・経度欠落でドロップされた
	ErrNoValidPoints = errors.New("CSV内に有効なポイントが見つかりません")
)

// GeometryParseError KMLの構造が不正、または数値座標が解釈できない場合のエラー
type GeometryParseError struct {
	Cause error
}

func (e *GeometryParseError) Error() string {
	return fmt.Sprintf("KMLの解析に失敗しました: %v", e.Cause)
}

func (e *GeometryParseError) Unwrap() error {
	return e.Cause
}

// MissingColumnError 緯度または経度の列名がヘッダーと照合できなかった場合のエラー
// Found には診断用に検出されたヘッダー名を保持する
type MissingColumnError struct {
	Found []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("CSVに必要な列がありません。検出された列: %v", e.Found)
}
