// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"context"
	"strings"
	"time"

	"github.com/olegiv/academy/internal/model"
)

// LinkInput holds the fields of a new book or manuscript.
type LinkInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// LinkChanges lists the book or manuscript fields to change; nil fields are kept.
type LinkChanges struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
}

func (in LinkInput) validate() error {
	var v validator
	v.required("title", in.Title)
	v.required("link", in.Link)
	return v.err()
}

func (c LinkChanges) validate() error {
	var v validator
	if c.Title != nil {
		v.required("title", *c.Title)
	}
	if c.Link != nil {
		v.required("link", *c.Link)
	}
	return v.err()
}

func (c LinkChanges) apply(title, description, link *string) {
	if c.Title != nil {
		*title = strings.TrimSpace(*c.Title)
	}
	if c.Description != nil {
		*description = strings.TrimSpace(*c.Description)
	}
	if c.Link != nil {
		*link = strings.TrimSpace(*c.Link)
	}
}

// DefaultBooks is the catalogue shown while no books are stored.
var DefaultBooks = []model.Book{
	{
		Title:       "كتاب أسرار العلاج",
		Description: "دليل شامل لفنون العلاج الروحاني وتقنياته المختلفة.",
		Link:        "#",
	},
	{
		Title:       "كتاب الطاقة الروحانية",
		Description: "تعرف على مفهوم الطاقة الروحانية وكيفية استغلالها في حياتك اليومية.",
		Link:        "#",
	},
	{
		Title:       "كتاب مسارات التأمل",
		Description: "طرق وتمارين عملية لتحقيق حالة الهدوء والسكينة الداخلية.",
		Link:        "#",
	},
}

// DefaultManuscript is the shared manuscripts folder, always listed first.
var DefaultManuscript = model.Manuscript{
	Title:       "المخطوطات",
	Description: "للاطلاع على جميع المخطوطات المتوفرة، اضغط على الرابط.",
	Link:        "https://drive.google.com/drive/folders/19DKYkhGpq22OLOdYAZO8mwrsGLPlXLTF",
}

// Books manages the library books.
type Books struct {
	coll *Collection[model.Book]
	now  func() time.Time
}

// List returns the stored books.
func (r *Books) List(ctx context.Context) ([]model.Book, error) {
	return r.coll.Load(ctx)
}

// Catalogue returns the stored books, or DefaultBooks when none are stored.
func (r *Books) Catalogue(ctx context.Context) ([]model.Book, error) {
	books, err := r.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return append([]model.Book(nil), DefaultBooks...), nil
	}
	return books, nil
}

// Get returns the book with id.
func (r *Books) Get(ctx context.Context, id int64) (model.Book, error) {
	return getByID(ctx, r.coll, id)
}

// Create validates and appends a book.
func (r *Books) Create(ctx context.Context, in LinkInput) (model.Book, error) {
	in = in.trimmed()
	if err := in.validate(); err != nil {
		return model.Book{}, err
	}
	return appendRecord(ctx, r.coll, r.now(), func(_ []model.Book, id int64) model.Book {
		return model.Book{ID: id, Title: in.Title, Description: in.Description, Link: in.Link}
	})
}

// Update applies changes to the book with id.
func (r *Books) Update(ctx context.Context, id int64, changes LinkChanges) (model.Book, error) {
	if err := changes.validate(); err != nil {
		return model.Book{}, err
	}
	return updateByID(ctx, r.coll, id, func(_ []model.Book, b *model.Book) error {
		changes.apply(&b.Title, &b.Description, &b.Link)
		return nil
	})
}

// Delete removes the book with id.
func (r *Books) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.coll, id)
}

// Manuscripts manages the manuscript links.
type Manuscripts struct {
	coll *Collection[model.Manuscript]
	now  func() time.Time
}

// List returns the stored manuscripts.
func (r *Manuscripts) List(ctx context.Context) ([]model.Manuscript, error) {
	return r.coll.Load(ctx)
}

// Catalogue returns DefaultManuscript followed by the stored manuscripts.
func (r *Manuscripts) Catalogue(ctx context.Context) ([]model.Manuscript, error) {
	stored, err := r.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	return append([]model.Manuscript{DefaultManuscript}, stored...), nil
}

// Get returns the manuscript with id.
func (r *Manuscripts) Get(ctx context.Context, id int64) (model.Manuscript, error) {
	return getByID(ctx, r.coll, id)
}

// Create validates and appends a manuscript.
func (r *Manuscripts) Create(ctx context.Context, in LinkInput) (model.Manuscript, error) {
	in = in.trimmed()
	if err := in.validate(); err != nil {
		return model.Manuscript{}, err
	}
	return appendRecord(ctx, r.coll, r.now(), func(_ []model.Manuscript, id int64) model.Manuscript {
		return model.Manuscript{ID: id, Title: in.Title, Description: in.Description, Link: in.Link}
	})
}

// Update applies changes to the manuscript with id.
func (r *Manuscripts) Update(ctx context.Context, id int64, changes LinkChanges) (model.Manuscript, error) {
	if err := changes.validate(); err != nil {
		return model.Manuscript{}, err
	}
	return updateByID(ctx, r.coll, id, func(_ []model.Manuscript, m *model.Manuscript) error {
		changes.apply(&m.Title, &m.Description, &m.Link)
		return nil
	})
}

// Delete removes the manuscript with id.
func (r *Manuscripts) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.coll, id)
}

func (in LinkInput) trimmed() LinkInput {
	return LinkInput{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Link:        strings.TrimSpace(in.Link),
	}
}
