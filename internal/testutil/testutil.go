// Package testutil 测试辅助：内存 SQLite 数据库与测试数据生成
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kuomat/penn-labs/config"
	"github.com/kuomat/penn-labs/pkg/database"
)

var dbSeq atomic.Int64

// NewDB 创建独立的内存 SQLite 数据库并完成建表，测试结束自动关闭
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := database.NewDB(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: dsn}, "error", zap.NewNop())
	if err != nil {
		tb.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := database.RunMigrations(db, config.DriverSQLite, zap.NewNop()); err != nil {
		tb.Fatalf("测试数据库迁移失败: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Faker 测试数据生成器（固定种子，便于复现）
type Faker struct {
	f   *gofakeit.Faker
	seq int
}

// NewFaker 创建测试数据生成器
func NewFaker(seed uint64) *Faker {
	return &Faker{f: gofakeit.New(seed)}
}

// ClubName 生成社团名称（带序号保证唯一）
func (g *Faker) ClubName() string {
	g.seq++
	return fmt.Sprintf("%s %s Club %d", g.f.Adjective(), g.f.Noun(), g.seq)
}

// Description 生成社团简介
func (g *Faker) Description() string {
	return g.f.Sentence(8)
}

// Username 生成用户名
func (g *Faker) Username() string {
	g.seq++
	return fmt.Sprintf("%s%d", strings.ToLower(g.f.FirstName()), g.seq)
}

// Tags 生成 n 个标签名
func (g *Faker) Tags(n int) []string {
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tags = append(tags, g.f.Hobby())
	}
	return tags
}
