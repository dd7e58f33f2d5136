package pdf

import (
	"bytes"
	"errors"
	"fmt"

	lpdf "github.com/ledongthuc/pdf"
)

// ErrEmptyDocument 表示渲染结果不是可读的 PDF 或没有页面。
var ErrEmptyDocument = errors.New("rendered pdf has no pages")

// PageCount 解析 PDF 并返回页数。
func PageCount(data []byte) (n int, err error) {
	// ledongthuc/pdf 在遇到损坏的交叉引用表时会 panic。
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrEmptyDocument, r)
		}
	}()

	reader, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEmptyDocument, err)
	}
	return reader.NumPage(), nil
}

// Verify 确认渲染结果至少包含一页。
func Verify(data []byte) error {
	n, err := PageCount(data)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEmptyDocument
	}
	return nil
}
