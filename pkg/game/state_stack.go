package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// StateStack manages the game's high-level state as a stack of scenes.
// Only the top scene's Update and Draw methods are called; scenes below it are
// paused until everything above them is popped.
//
// The game loop ends once the stack is empty or Quit has been called.
type StateStack struct {
	scenes []Scene
	quit   bool
}

// NewStateStack creates and returns an empty StateStack.
// Use Push to set the initial scene.
func NewStateStack() *StateStack {
	return &StateStack{}
}

// Push makes scene the active scene, pausing the current one.
func (ss *StateStack) Push(scene Scene) {
	if scene == nil {
		log.Printf("[StateStack] 错误: 不能压入空场景")
		return
	}
	ss.scenes = append(ss.scenes, scene)
}

// Pop removes the active scene and returns it.
// The scene below it becomes active again. Returns nil on an empty stack.
func (ss *StateStack) Pop() Scene {
	if len(ss.scenes) == 0 {
		return nil
	}
	top := ss.scenes[len(ss.scenes)-1]
	ss.scenes[len(ss.scenes)-1] = nil
	ss.scenes = ss.scenes[:len(ss.scenes)-1]
	return top
}

// Replace swaps the active scene for scene in one step.
func (ss *StateStack) Replace(scene Scene) {
	ss.Pop()
	ss.Push(scene)
}

// Top returns the active scene, or nil if the stack is empty.
func (ss *StateStack) Top() Scene {
	if len(ss.scenes) == 0 {
		return nil
	}
	return ss.scenes[len(ss.scenes)-1]
}

// Len returns the number of scenes on the stack.
func (ss *StateStack) Len() int {
	return len(ss.scenes)
}

// Quit asks the game loop to end after the current frame.
func (ss *StateStack) Quit() {
	log.Printf("[StateStack] Quit requested")
	ss.quit = true
}

// Done reports whether the game loop should end.
func (ss *StateStack) Done() bool {
	return ss.quit || len(ss.scenes) == 0
}

// Update updates the active scene.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (ss *StateStack) Update(deltaTime float64) {
	if top := ss.Top(); top != nil {
		top.Update(deltaTime)
	}
}

// Draw renders the active scene to the provided screen.
// If no scene is active, this method does nothing.
func (ss *StateStack) Draw(screen *ebiten.Image) {
	if top := ss.Top(); top != nil {
		top.Draw(screen)
	}
}
