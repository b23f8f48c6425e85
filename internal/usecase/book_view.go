package usecase

import "bookex/internal/domain/model"

// レスポンス用の本（pic_path付き）
type BookView struct {
	model.Book
	PicPath string `json:"pic_path"`
}

func toBookView(b model.Book) BookView {
	return BookView{Book: b, PicPath: b.PicPath()}
}

func toBookViews(books []model.Book) []BookView {
	out := make([]BookView, 0, len(books))
	for _, b := range books {
		out = append(out, toBookView(b))
	}
	return out
}
