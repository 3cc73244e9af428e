package repository

import (
	"AdBoard/internal/api/config"
	"AdBoard/internal/model"
	"AdBoard/internal/pkg/consts"
	"context"
	stderrors "errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var ErrAdNotFound = stderrors.New("ad not found")

const (
	defaultScanLimit  = 100
	commentTxAttempts = 3
)

// ScanResult LastKey 非空表示还有下一页
type ScanResult struct {
	Items   []*model.Ad
	LastKey string
}

type AdRepo interface {
	Put(ctx context.Context, ad *model.Ad) error
	// Get 记录不存在时返回 ErrAdNotFound
	Get(ctx context.Context, id string) (*model.Ad, error)
	// Update 设置若干属性并返回更新后的记录，不存在时返回 ErrAdNotFound
	Update(ctx context.Context, id string, attrs map[string]any) (*model.Ad, error)
	// IncrementCounter 服务端原子累加，返回累加后的值
	IncrementCounter(ctx context.Context, id, attr string, delta int64) (int64, error)
	AppendComment(ctx context.Context, id string, comment model.Comment, updatedAt string) error
	// Delete 返回删除前的记录，不存在时返回 nil
	Delete(ctx context.Context, id string) (*model.Ad, error)
	// Scan 按 id 字典序扫描 startKey 之后的至多 limit 条记录，过滤后返回
	Scan(ctx context.Context, filter Filter, limit int, startKey string) (*ScanResult, error)
}

// 存在才更新，返回更新后的全部字段
var updateScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return false
end
redis.call("HSET", KEYS[1], unpack(ARGV))
return redis.call("HGETALL", KEYS[1])
`)

var incrScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return false
end
return redis.call("HINCRBY", KEYS[1], ARGV[1], ARGV[2])
`)

type AdRepoImpl struct {
	rdb         redis.UniversalClient
	keyPrefix   string
	indexKey    string
	expiryGrace time.Duration
}

func NewAdRepo(rdb redis.UniversalClient, cfg config.StoreConfig) AdRepo {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "adboard"
	}
	return &AdRepoImpl{
		rdb:         rdb,
		keyPrefix:   prefix + consts.AdKeySuffix,
		indexKey:    prefix + consts.AdIndexKeySuffix,
		expiryGrace: cfg.NativeExpiryGrace,
	}
}

func (s *AdRepoImpl) adKey(id string) string {
	return s.keyPrefix + id
}

func (s *AdRepoImpl) Put(ctx context.Context, ad *model.Ad) error {
	fields, err := encodeAd(ad)
	if err != nil {
		return errors.Wrap(err, "encode ad")
	}
	key := s.adKey(ad.ID)

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		pipe.ZAdd(ctx, s.indexKey, redis.Z{Score: 0, Member: ad.ID})
		if ad.TTL > 0 {
			pipe.ExpireAt(ctx, key, time.Unix(ad.TTL, 0).Add(s.expiryGrace))
		}
		return nil
	})
	return errors.Wrapf(err, "put ad %s", ad.ID)
}

func (s *AdRepoImpl) Get(ctx context.Context, id string) (*model.Ad, error) {
	fields, err := s.rdb.HGetAll(ctx, s.adKey(id)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "get ad %s", id)
	}
	ad, err := decodeAd(fields)
	if err != nil {
		return nil, errors.Wrapf(err, "decode ad %s", id)
	}
	if ad == nil {
		return nil, ErrAdNotFound
	}
	return ad, nil
}

func (s *AdRepoImpl) Update(ctx context.Context, id string, attrs map[string]any) (*model.Ad, error) {
	if len(attrs) == 0 {
		return s.Get(ctx, id)
	}
	args := make([]any, 0, len(attrs)*2)
	for name, v := range attrs {
		encoded, err := encodeValue(v)
		if err != nil {
			return nil, errors.Wrapf(err, "encode attribute %s", name)
		}
		args = append(args, name, encoded)
	}

	res, err := updateScript.Run(ctx, s.rdb, []string{s.adKey(id)}, args...).Slice()
	if stderrors.Is(err, redis.Nil) {
		return nil, ErrAdNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "update ad %s", id)
	}

	fields := make(map[string]string, len(res)/2)
	for i := 0; i+1 < len(res); i += 2 {
		fields[fmt.Sprint(res[i])] = fmt.Sprint(res[i+1])
	}
	ad, err := decodeAd(fields)
	if err != nil {
		return nil, errors.Wrapf(err, "decode ad %s", id)
	}
	return ad, nil
}

func (s *AdRepoImpl) IncrementCounter(ctx context.Context, id, attr string, delta int64) (int64, error) {
	n, err := incrScript.Run(ctx, s.rdb, []string{s.adKey(id)}, attr, delta).Int64()
	if stderrors.Is(err, redis.Nil) {
		return 0, ErrAdNotFound
	}
	if err != nil {
		return 0, errors.Wrapf(err, "increment %s of ad %s", attr, id)
	}
	return n, nil
}

func (s *AdRepoImpl) AppendComment(ctx context.Context, id string, comment model.Comment, updatedAt string) error {
	key := s.adKey(id)
	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return ErrAdNotFound
		}

		var comments []model.Comment
		raw, err := tx.HGet(ctx, key, AttrComments).Result()
		if err != nil && !stderrors.Is(err, redis.Nil) {
			return err
		}
		if raw != "" {
			if err = json.Unmarshal([]byte(raw), &comments); err != nil {
				return errors.Wrap(err, "decode comments")
			}
		}
		encoded, err := encodeValue(append(comments, comment))
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, AttrComments, encoded, AttrUpdatedAt, updatedAt)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < commentTxAttempts; i++ {
		err = s.rdb.Watch(ctx, txf, key)
		if !stderrors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if stderrors.Is(err, ErrAdNotFound) {
		return ErrAdNotFound
	}
	return errors.Wrapf(err, "append comment to ad %s", id)
}

func (s *AdRepoImpl) Delete(ctx context.Context, id string) (*model.Ad, error) {
	key := s.adKey(id)
	var old *redis.MapStringStringCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		old = pipe.HGetAll(ctx, key)
		pipe.Del(ctx, key)
		pipe.ZRem(ctx, s.indexKey, id)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "delete ad %s", id)
	}
	ad, err := decodeAd(old.Val())
	if err != nil {
		// 记录已删除，旧值无法解析时只记录日志
		log.WarnContext(ctx, "deleted ad had undecodable attributes", "id", id, "err", err)
		return &model.Ad{ID: id}, nil
	}
	return ad, nil
}

func (s *AdRepoImpl) Scan(ctx context.Context, filter Filter, limit int, startKey string) (*ScanResult, error) {
	if limit <= 0 {
		limit = defaultScanLimit
	}
	lo := "-"
	if startKey != "" {
		lo = "(" + startKey
	}

	ids, err := s.rdb.ZRangeByLex(ctx, s.indexKey, &redis.ZRangeBy{
		Min:   lo,
		Max:   "+",
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, errors.Wrap(err, "scan ad index")
	}

	result := &ScanResult{Items: make([]*model.Ad, 0, len(ids))}
	if len(ids) == 0 {
		return result, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.adKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "load scanned ads")
	}

	var dangling []any
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			dangling = append(dangling, ids[i])
			continue
		}
		if !filter.Match(fields) {
			continue
		}
		ad, err := decodeAd(fields)
		if err != nil {
			log.WarnContext(ctx, "skipping undecodable ad", "id", ids[i], "err", err)
			continue
		}
		if ad.ID == "" {
			ad.ID = ids[i]
		}
		result.Items = append(result.Items, ad)
	}

	if len(dangling) > 0 {
		if err = s.rdb.ZRem(ctx, s.indexKey, dangling...).Err(); err != nil {
			log.WarnContext(ctx, "failed to prune dangling index entries", "count", len(dangling), "err", err)
		}
	}

	if len(ids) == limit {
		result.LastKey = ids[len(ids)-1]
	}
	return result, nil
}
