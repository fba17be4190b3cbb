package game

import (
	"log"
	"time"

	"github.com/decker502/garden/pkg/config"
)

// SchedulerState 帧调度器的状态
type SchedulerState int

const (
	// SchedulerIdle 空闲：没有待执行的帧，也没有连续循环
	SchedulerIdle SchedulerState = iota
	// SchedulerFrameRequested 已排入恰好一帧，执行完回到空闲
	SchedulerFrameRequested
	// SchedulerContinuousLoop 连续循环：每个显示刷新都执行一帧
	SchedulerContinuousLoop
)

// String 返回调度状态的字符串表示
func (s SchedulerState) String() string {
	switch s {
	case SchedulerFrameRequested:
		return "frame_requested"
	case SchedulerContinuousLoop:
		return "continuous_loop"
	default:
		return "idle"
	}
}

// FrameScheduler 按需帧调度器
//
// 花园大部分时间是静止的，让渲染循环常驻 60fps 纯属浪费电。
// 调度器用三状态机把帧的产生压到最低：
//   - 交互期间进入连续循环，每个刷新回调执行一帧；
//   - 单次变化（放置、浇水、存档恢复）只请求一帧，执行完即回空闲；
//   - 空闲时由两个后台轮询兜底：生长轮询间隔较短，只在有植物
//     正在生长时请求帧；昼夜轮询间隔很长，只为避免天空颜色在
//     长时间空闲后显得冻结。
//
// 时钟通过构造注入，所有转移都是确定性的纯状态变化，便于用手动
// 时钟做单元测试。调度器本身不做任何 I/O，也没有错误分支：最坏
// 情况只是画面晚一拍刷新，下一次轮询或交互会自行纠正。
type FrameScheduler struct {
	clock             Clock
	state             SchedulerState
	interactionActive bool
	nextGrowthPoll    time.Time
	nextIdlePoll      time.Time
}

// NewFrameScheduler 创建帧调度器，初始为空闲态，两个轮询从当前时刻起算
// 参数:
//   - clock: 时钟（测试中注入手动时钟）
func NewFrameScheduler(clock Clock) *FrameScheduler {
	s := &FrameScheduler{
		clock: clock,
		state: SchedulerIdle,
	}
	s.reschedulePolls(clock.Now())
	return s
}

// State 返回当前调度状态
func (s *FrameScheduler) State() SchedulerState {
	return s.state
}

// InteractionActive 返回交互进行中标志
func (s *FrameScheduler) InteractionActive() bool {
	return s.interactionActive
}

// RequestFrame 请求执行一帧
//
// 只在空闲态排帧；已有待执行帧或连续循环运行中时为无操作，
// 因此同一拍内的多次变更只产生一帧（合并语义）。
func (s *FrameScheduler) RequestFrame() {
	if s.state != SchedulerIdle {
		return
	}
	s.state = SchedulerFrameRequested
}

// StartContinuousLoop 进入连续循环（任意状态可进入）
//
// 取消已排入的单帧请求，并暂停两个后台轮询：循环本身每帧都会
// 覆盖它们的职责。
func (s *FrameScheduler) StartContinuousLoop() {
	if s.state == SchedulerContinuousLoop {
		return
	}
	log.Printf("[FrameScheduler] %v -> continuous_loop", s.state)
	s.state = SchedulerContinuousLoop
}

// SetInteractionActive 设置交互进行中标志
//
// 标志决定连续循环在每帧末尾是否继续：置 false 后循环在下一帧
// 自然退出，不需要显式的停止调用。
func (s *FrameScheduler) SetInteractionActive(active bool) {
	s.interactionActive = active
}

// Tick 每个显示刷新回调调用一次，返回本帧是否应执行模拟+渲染
// 参数:
//   - anyPlantGrowing: 是否有植物处于健康且未长满状态
//
// 空闲与单帧待执行期间轮询照常计时；连续循环期间轮询暂停。
// 生长轮询到期时只在有植物生长时请求帧；昼夜轮询到期时只在
// 没有生长、没有交互时请求帧（仅为刷新天空颜色）。
func (s *FrameScheduler) Tick(anyPlantGrowing bool) bool {
	now := s.clock.Now()

	if s.state != SchedulerContinuousLoop {
		if !now.Before(s.nextGrowthPoll) {
			s.nextGrowthPoll = now.Add(config.GrowthPollInterval)
			if anyPlantGrowing {
				s.RequestFrame()
			}
		}
		if !now.Before(s.nextIdlePoll) {
			s.nextIdlePoll = now.Add(config.IdleRefreshInterval)
			if !anyPlantGrowing && !s.interactionActive {
				s.RequestFrame()
			}
		}
	}

	return s.state != SchedulerIdle
}

// FinishFrame 一帧（模拟+渲染）执行完毕后调用，决定状态走向
//
// 单帧请求消费后回空闲；连续循环只在交互标志仍置位时继续，
// 否则退出循环、恢复两个后台轮询（从当前时刻重新起算）。
func (s *FrameScheduler) FinishFrame() {
	switch s.state {
	case SchedulerFrameRequested:
		s.state = SchedulerIdle
	case SchedulerContinuousLoop:
		if !s.interactionActive {
			log.Printf("[FrameScheduler] continuous_loop -> idle")
			s.state = SchedulerIdle
			s.reschedulePolls(s.clock.Now())
		}
	}
}

// reschedulePolls 把两个轮询的下次到期时刻从 now 重新起算
func (s *FrameScheduler) reschedulePolls(now time.Time) {
	s.nextGrowthPoll = now.Add(config.GrowthPollInterval)
	s.nextIdlePoll = now.Add(config.IdleRefreshInterval)
}
