package application

import (
	"context"
	"strconv"
	"sync"

	"github.com/bintangpradana/pressadmin/internal/domain/entity"
	repo "github.com/bintangpradana/pressadmin/internal/domain/repository"
)

type fakePosts struct {
	mu     sync.Mutex
	seq    int
	byID   map[string]*entity.Post
	tagsBy map[string][]string // post id -> tag ids
	tags   map[string]entity.Tag
}

func newFakePosts() *fakePosts {
	return &fakePosts{byID: map[string]*entity.Post{}, tagsBy: map[string][]string{}, tags: map[string]entity.Tag{}}
}

func (f *fakePosts) Create(_ context.Context, p *entity.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	p.ID = "post-" + strconv.Itoa(f.seq)
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePosts) GetByID(_ context.Context, id string) (*entity.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePosts) GetBySlug(_ context.Context, slug string) (*entity.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakePosts) List(_ context.Context, flt repo.PostFilter) ([]entity.Post, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Post
	for _, p := range f.byID {
		if flt.Status != "" && p.Status != flt.Status {
			continue
		}
		if flt.AuthorID != "" && p.AuthorID != flt.AuthorID {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakePosts) Update(_ context.Context, p *entity.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[p.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePosts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePosts) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePosts) ReplaceTags(_ context.Context, postID string, tagIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(tagIDs) == 0 {
		delete(f.tagsBy, postID)
		return nil
	}
	f.tagsBy[postID] = append([]string(nil), tagIDs...)
	return nil
}

func (f *fakePosts) TagsForPost(_ context.Context, postID string) ([]entity.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Tag
	for _, id := range f.tagsBy[postID] {
		if t, ok := f.tags[id]; ok {
			out = append(out, t)
		} else {
			out = append(out, entity.Tag{ID: id})
		}
	}
	return out, nil
}

type fakeCategories struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*entity.Category
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{byID: map[string]*entity.Category{}}
}

func (f *fakeCategories) Create(_ context.Context, c *entity.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c.ID = "cat-" + strconv.Itoa(f.seq)
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCategories) GetByID(_ context.Context, id string) (*entity.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategories) List(_ context.Context) ([]entity.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Category
	for _, c := range f.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategories) Update(_ context.Context, c *entity.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[c.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCategories) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byID {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type fakeTags struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*entity.Tag
}

func newFakeTags() *fakeTags {
	return &fakeTags{byID: map[string]*entity.Tag{}}
}

func (f *fakeTags) Create(_ context.Context, t *entity.Tag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	t.ID = "tag-" + strconv.Itoa(f.seq)
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTags) GetByID(_ context.Context, id string) (*entity.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTags) List(_ context.Context) ([]entity.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Tag
	for _, t := range f.byID {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTags) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeTags) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.byID {
		if t.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type fakeMedia struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*entity.Media
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{byID: map[string]*entity.Media{}}
}

func (f *fakeMedia) Create(_ context.Context, m *entity.Media) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	m.ID = "media-" + strconv.Itoa(f.seq)
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}

func (f *fakeMedia) GetByID(_ context.Context, id string) (*entity.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMedia) List(_ context.Context, _, _ int) ([]entity.Media, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Media
	for _, m := range f.byID {
		out = append(out, *m)
	}
	return out, len(out), nil
}

func (f *fakeMedia) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

var (
	_ repo.PostRepository     = (*fakePosts)(nil)
	_ repo.CategoryRepository = (*fakeCategories)(nil)
	_ repo.TagRepository      = (*fakeTags)(nil)
	_ repo.MediaRepository    = (*fakeMedia)(nil)
)
