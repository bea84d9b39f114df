package prompts

import (
	"math/rand"
	"sync"
	"time"
)

// The template lists are baked in on purpose: the bot posts from a curated
// set, not from user input.
var promptTemplates = []string{
	"A golden retriever in round glasses falling asleep on a pile of calculus textbooks, warm watercolor",
	"A tiny robot triumphantly holding a flashcard that says 'irregular verbs', pixel art",
	"An owl professor writing formulas on a chalkboard while students take notes upside down, vintage cartoon",
	"A cat highlighting every single line of a book in five different colors, flat illustration",
	"A hamster running in a wheel that powers a lamp over an open notebook, cozy digital painting",
	"A penguin giving a conference talk titled 'How to procrastinate professionally', comic style",
	"A capybara meditating in lotus pose on top of a stack of dictionaries, soft pastel colors",
	"A raccoon cramming for exams at 3am surrounded by empty coffee cups, dramatic chiaroscuro",
	"A parrot repeating vocabulary words to a bored goldfish in a bowl, children's book illustration",
	"A sloth slowly raising its hand in a classroom while the question changes on the board, oil painting",
}

var captions = []string{
	"Today's reminder: repetition is the mother of learning 📚",
	"One flashcard a day keeps forgetting away",
	"Your future self is watching you study right now",
	"Small steps every day beat heroic all-nighters",
	"Learned something today? Teach it to someone!",
	"The best time to review was yesterday. The second best is now",
	"Brains love breaks. Take one, then come back",
	"Mistakes are just data points. Collect more of them",
	"Curiosity doesn't need a deadline",
	"Done is better than perfect, especially with homework",
}

// Selector draws prompts and captions uniformly and independently.
// The random source is injectable so tests can force determinism.
type Selector struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSelector builds a Selector from the given source. A nil source falls
// back to a time-seeded one.
func NewSelector(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Selector{rnd: rand.New(src)}
}

// Prompt returns a random prompt template.
func (s *Selector) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return promptTemplates[s.rnd.Intn(len(promptTemplates))]
}

// Caption returns a random caption, drawn independently of Prompt.
func (s *Selector) Caption() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return captions[s.rnd.Intn(len(captions))]
}

// Templates returns a copy of the prompt template list.
func Templates() []string {
	out := make([]string, len(promptTemplates))
	copy(out, promptTemplates)
	return out
}

// Captions returns a copy of the caption list.
func Captions() []string {
	out := make([]string, len(captions))
	copy(out, captions)
	return out
}
