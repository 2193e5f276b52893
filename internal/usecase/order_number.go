package usecase

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// 注文番号の採番方式
const (
	OrderNumberUUID       = "uuid"
	OrderNumberSequential = "sequential"
	OrderNumberTime       = "time"
)

type OrderNumberGenerator interface {
	Next() string
}

// NewOrderNumberGenerator は方式名から採番器を返す。空や未知の名前はuuid。
func NewOrderNumberGenerator(strategy string) OrderNumberGenerator {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case OrderNumberSequential:
		return &SequentialOrderNumber{now: time.Now}
	case OrderNumberTime:
		return NewTimeOrderNumber()
	default:
		return UUIDOrderNumber{}
	}
}

// ORD- + UUIDの先頭10桁（大文字）
type UUIDOrderNumber struct{}

func (UUIDOrderNumber) Next() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(hex[:10])
}

// ORD-{epoch秒}-{連番5桁}
type SequentialOrderNumber struct {
	counter atomic.Int64
	now     func() time.Time
}

func (g *SequentialOrderNumber) Next() string {
	n := g.counter.Add(1)
	return fmt.Sprintf("ORD-%d-%05d", g.now().Unix(), n%100000)
}

// ORD-{ミリ秒の下6桁}{乱数4桁}
type TimeOrderNumber struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func NewTimeOrderNumber() *TimeOrderNumber {
	return &TimeOrderNumber{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

func (g *TimeOrderNumber) Next() string {
	g.mu.Lock()
	r := g.rnd.Intn(10000)
	g.mu.Unlock()

	ms := fmt.Sprintf("%d", g.now().UnixMilli())
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return fmt.Sprintf("ORD-%s%04d", ms, r)
}
