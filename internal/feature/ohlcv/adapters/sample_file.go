// Package adapters はohlcvフィーチャーのデータソースとアップロードストアの実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"ohlcv_dashboard/internal/feature/ohlcv/usecase"
)

// sampleFile はディスク上の同梱サンプルCSVを読み込むSampleSource実装です。
type sampleFile struct {
	path string
}

// sampleFileがSampleSourceを実装していることをコンパイル時に検証します。
var _ usecase.SampleSource = (*sampleFile)(nil)

// NewSampleFile は指定パスのサンプルCSVを読むsampleFileを生成します。
func NewSampleFile(path string) *sampleFile {
	return &sampleFile{path: path}
}

// ReadSample はサンプルファイルを読み込みます。
// ファイルが存在しない場合はusecase.ErrMissingSampleData、
// それ以外の読み込み失敗はusecase.ErrUnreadableSampleDataを返します。
func (s *sampleFile) ReadSample(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", usecase.ErrMissingSampleData, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrUnreadableSampleData, err)
	}
	return data, nil
}
