package scoring

import (
	"fmt"
	"strings"
)

// Schema 评分方案版本
type Schema string

const (
	// SchemaFull 7 分制：媒体 0-3（视频 +2，封顶 3）、描述 0-2、资料完整度 0-2，>=5 精选
	SchemaFull Schema = "full"
	// SchemaCompact 4 分制：媒体 0-1、描述 0-2、标题 0-1，>=3 精选
	SchemaCompact Schema = "compact"
)

// Input 评分输入
type Input struct {
	ImageCount          int
	VideoCount          int
	DescriptionLength   int
	TitleLength         int
	HasProfileImage     bool
	HasBusinessMetadata bool
}

// Result 评分结果
type Result struct {
	Score    int
	Max      int
	Featured bool
	Schema   Schema
}

type Scorer struct {
	schema Schema
}

func NewScorer(schema Schema) (*Scorer, error) {
	parsed, err := ParseSchema(string(schema))
	if err != nil {
		return nil, err
	}
	return &Scorer{schema: parsed}, nil
}

// ParseSchema 解析配置中的方案名，空串默认 full
func ParseSchema(s string) (Schema, error) {
	switch Schema(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemaFull:
		return SchemaFull, nil
	case SchemaCompact:
		return SchemaCompact, nil
	}
	return "", fmt.Errorf("unknown score schema %q", s)
}

func (s *Scorer) Schema() Schema {
	return s.schema
}

// MaxScore 当前方案的满分
func (s *Scorer) MaxScore() int {
	if s.schema == SchemaCompact {
		return 4
	}
	return 7
}

// Threshold 精选阈值，约为满分的 70%
func (s *Scorer) Threshold() int {
	if s.schema == SchemaCompact {
		return 3
	}
	return 5
}

func (s *Scorer) Score(in Input) Result {
	var score int
	if s.schema == SchemaCompact {
		score = compactMediaPoints(in) + descriptionPoints(in.DescriptionLength) + titlePoints(in.TitleLength)
	} else {
		score = fullMediaPoints(in) + descriptionPoints(in.DescriptionLength) + profilePoints(in)
	}
	score = min(score, s.MaxScore())

	return Result{
		Score:    score,
		Max:      s.MaxScore(),
		Featured: score >= s.Threshold(),
		Schema:   s.schema,
	}
}

func fullMediaPoints(in Input) int {
	var points int
	switch {
	case in.ImageCount >= 3:
		points = 3
	case in.ImageCount == 2:
		points = 2
	case in.ImageCount == 1:
		points = 1
	}
	if in.VideoCount > 0 {
		points += 2
	}
	return min(points, 3)
}

func compactMediaPoints(in Input) int {
	if in.ImageCount+in.VideoCount >= 2 {
		return 1
	}
	return 0
}

func descriptionPoints(length int) int {
	switch {
	case length >= 100:
		return 2
	case length >= 50:
		return 1
	}
	return 0
}

func profilePoints(in Input) int {
	var points int
	if in.HasProfileImage {
		points++
	}
	if in.HasBusinessMetadata {
		points++
	}
	return points
}

func titlePoints(length int) int {
	if length >= 20 {
		return 1
	}
	return 0
}
