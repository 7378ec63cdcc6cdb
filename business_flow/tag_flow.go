package businessflow

import (
	"context"

	"github.com/amirphl/bkm-notes/app/dto"
	"github.com/amirphl/bkm-notes/repository"
)

// TagFlow lists the tags of an author
type TagFlow interface {
	ListTags(ctx context.Context, req *dto.ListTagsRequest, metadata *ClientMetadata) ([]dto.TagDTO, error)
}

type TagFlowImpl struct {
	tagRepo repository.TagRepository
}

func NewTagFlow(tagRepo repository.TagRepository) TagFlow {
	return &TagFlowImpl{tagRepo: tagRepo}
}

// ListTags returns the tags the author uses, most used first
func (f *TagFlowImpl) ListTags(ctx context.Context, req *dto.ListTagsRequest, metadata *ClientMetadata) ([]dto.TagDTO, error) {
	rows, err := f.tagRepo.ListUsageByAuthor(ctx, req.Author)
	if err != nil {
		return nil, NewBusinessError("LIST_TAGS_FAILED", "Failed to fetch tags", err)
	}

	items := make([]dto.TagDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, ToTagDTO(*r))
	}
	return items, nil
}
