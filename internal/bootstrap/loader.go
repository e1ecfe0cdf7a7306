// Package bootstrap 初始化数据导入：建表、默认用户、抓取社团目录与本地 clubs.json
package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kuomat/penn-labs/config"
	"github.com/kuomat/penn-labs/internal/dto"
	"github.com/kuomat/penn-labs/internal/repository"
	"github.com/kuomat/penn-labs/internal/service"
	"github.com/kuomat/penn-labs/pkg/database"
)

// Options 单次导入的开关
type Options struct {
	SkipScrape bool
	ClubsFile  string // 为空时使用配置中的 bootstrap.clubs_file
}

// Summary 导入结果统计
type Summary struct {
	SeedUserCreated bool
	Scraped         int
	Loaded          int
	Skipped         int
}

// Loader 初始化数据导入器
type Loader struct {
	cfg    *config.Config
	db     *gorm.DB
	auth   service.AuthService
	clubs  service.ClubService
	client *http.Client
	logger *zap.Logger
}

// NewLoader 创建 Loader
func NewLoader(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *Loader {
	repo := repository.NewRepository(db)
	return &Loader{
		cfg:    cfg,
		db:     db,
		auth:   service.NewAuthService(cfg, repo, nil, logger),
		clubs:  service.NewClubService(repo, logger),
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// clubRecord clubs.json 中的单条记录
type clubRecord struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Run 依次执行：迁移 → 默认用户 → 抓取 → 加载 clubs.json
func (l *Loader) Run(ctx context.Context, opts Options) (*Summary, error) {
	sum := &Summary{}

	if err := database.RunMigrations(l.db, l.cfg.Database.Driver, l.logger); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	created, err := l.seedUser(ctx)
	if err != nil {
		return nil, err
	}
	sum.SeedUserCreated = created

	if !opts.SkipScrape && l.cfg.Bootstrap.ScrapeURL != "" {
		records, err := l.scrape(ctx, l.cfg.Bootstrap.ScrapeURL)
		if err != nil {
			return nil, err
		}
		n, skipped, err := l.createClubs(ctx, records)
		if err != nil {
			return nil, err
		}
		sum.Scraped, sum.Skipped = n, sum.Skipped+skipped
	}

	path := opts.ClubsFile
	if path == "" {
		path = l.cfg.Bootstrap.ClubsFile
	}
	if path != "" {
		records, err := readClubsFile(path)
		if err != nil {
			return nil, err
		}
		n, skipped, err := l.createClubs(ctx, records)
		if err != nil {
			return nil, err
		}
		sum.Loaded, sum.Skipped = n, sum.Skipped+skipped
	}

	l.logger.Info("初始化数据导入完成",
		zap.Bool("seed_user_created", sum.SeedUserCreated),
		zap.Int("scraped", sum.Scraped),
		zap.Int("loaded", sum.Loaded),
		zap.Int("skipped", sum.Skipped),
	)
	return sum, nil
}

func (l *Loader) seedUser(ctx context.Context) (bool, error) {
	seed := l.cfg.Bootstrap.SeedUser
	if seed.Username == "" {
		return false, nil
	}

	_, err := l.auth.Signup(ctx, &dto.SignupRequest{
		Username:       seed.Username,
		Password:       seed.Password,
		FirstName:      seed.FirstName,
		LastName:       seed.LastName,
		GraduationYear: seed.GraduationYear,
	})
	if errors.Is(err, service.ErrUsernameTaken) {
		l.logger.Warn("默认用户已存在，跳过", zap.String("username", seed.Username))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("创建默认用户失败: %w", err)
	}
	return true, nil
}

// scrape 抓取社团目录页，每个 div.box 对应一个社团。
// 非 200 响应只记录日志，不中断导入。
func (l *Loader) scrape(ctx context.Context, url string) ([]clubRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("构造抓取请求失败: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Warn("抓取社团目录失败", zap.String("url", url), zap.Error(err))
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.logger.Warn("抓取社团目录失败", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("解析社团目录失败: %w", err)
	}

	var records []clubRecord
	doc.Find("div.box").Each(func(_ int, box *goquery.Selection) {
		name := strings.TrimSpace(box.Find("strong").First().Text())
		if name == "" {
			return
		}
		records = append(records, clubRecord{
			Name:        name,
			Description: strings.TrimSpace(box.Find("em").First().Text()),
			Tags:        splitTags(box.Find("span").First().Text()),
		})
	})
	return records, nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func readClubsFile(path string) ([]clubRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	var records []clubRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	return records, nil
}

// createClubs 逐条创建社团，同名社团跳过
func (l *Loader) createClubs(ctx context.Context, records []clubRecord) (created, skipped int, err error) {
	for _, r := range records {
		_, err := l.clubs.Create(ctx, &dto.CreateClubRequest{
			Code:        r.Code,
			Name:        r.Name,
			Description: r.Description,
			Tags:        r.Tags,
		})
		if errors.Is(err, service.ErrClubExists) {
			l.logger.Warn("社团已存在，跳过", zap.String("name", r.Name))
			skipped++
			continue
		}
		if err != nil {
			return created, skipped, fmt.Errorf("创建社团 %q 失败: %w", r.Name, err)
		}
		created++
	}
	return created, skipped, nil
}
