package chain

import (
	"context"
	"fmt"
	"strings"

	"paperchain/internal/llm"
)

// QuestionAnswerNode is one node of a recursive decomposition tree. The
// tree owns its children exclusively; children are created fresh during
// Build and never linked to existing nodes, so no cycles are possible.
// Upstream holds the questions of every ancestor, outermost first, copied
// at creation time rather than derived through parent pointers.
type QuestionAnswerNode struct {
	Question string                `json:"question"`
	Answer   string                `json:"answer,omitempty"`
	Children []*QuestionAnswerNode `json:"children,omitempty"`
	Upstream []string              `json:"-"`
}

// QA pairs a child's question with its answer for parent aggregation.
type QA struct {
	Question string
	Answer   string
}

// SubquestionFunc proposes sub-questions for a node's question. Returning
// an empty list makes the node a leaf.
type SubquestionFunc func(ctx context.Context, question string) ([]string, error)

// LeafAnswerFunc answers a question that has no sub-questions.
type LeafAnswerFunc func(ctx context.Context, question string) (string, error)

// SubcontextAnswerFunc answers a question given its sub-questions and
// their answers, in original child order.
type SubcontextAnswerFunc func(ctx context.Context, question string, children []QA) (string, error)

// BuildQuestionTree constructs the decomposition tree top-down. The
// generator is called once per node while the node's depth is below
// maxDepth; nodes at maxDepth get no children. Each child's upstream list
// is its parent's upstream list plus the parent's own question.
func BuildQuestionTree(ctx context.Context, root string, maxDepth int, gen SubquestionFunc) (*QuestionAnswerNode, error) {
	return buildNode(ctx, root, nil, 0, maxDepth, gen)
}

func buildNode(ctx context.Context, question string, upstream []string, depth, maxDepth int, gen SubquestionFunc) (*QuestionAnswerNode, error) {
	node := &QuestionAnswerNode{
		Question: question,
		Upstream: append([]string(nil), upstream...),
	}
	if depth >= maxDepth {
		return node, nil
	}

	subs, err := gen(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("decomposing %q: %w", question, err)
	}

	childUpstream := append(append([]string(nil), upstream...), question)
	for _, sub := range subs {
		child, err := buildNode(ctx, sub, childUpstream, depth+1, maxDepth, gen)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// EvaluateQuestionTree answers every node in place, bottom-up. Traversal
// is depth-first with children visited in reverse creation order,
// post-order: a node's answer is set only after all of its children are
// answered, so no node ever aggregates an unanswered child. For a fixed
// tree and fixed collaborator responses the order is fully deterministic.
func EvaluateQuestionTree(ctx context.Context, root *QuestionAnswerNode, answerLeaf LeafAnswerFunc, answerWithSubcontext SubcontextAnswerFunc) error {
	if root == nil {
		return nil
	}
	for i := len(root.Children) - 1; i >= 0; i-- {
		if err := EvaluateQuestionTree(ctx, root.Children[i], answerLeaf, answerWithSubcontext); err != nil {
			return err
		}
	}

	if len(root.Children) == 0 {
		answer, err := answerLeaf(ctx, root.Question)
		if err != nil {
			return fmt.Errorf("answering leaf %q: %w", root.Question, err)
		}
		root.Answer = answer
		return nil
	}

	// Children are handed over in original order, regardless of the
	// reversed evaluation order.
	pairs := make([]QA, len(root.Children))
	for i, child := range root.Children {
		pairs[i] = QA{Question: child.Question, Answer: child.Answer}
	}
	answer, err := answerWithSubcontext(ctx, root.Question, pairs)
	if err != nil {
		return fmt.Errorf("answering %q: %w", root.Question, err)
	}
	root.Answer = answer
	return nil
}

// Amplify is the recursive question-decomposition chain: it builds a
// question tree with the Decompose recipe and evaluates it bottom-up with
// the QA recipes, aggregating children's answers into each parent's
// context.
type Amplify struct {
	gen      llm.Generator
	maxDepth int
}

// NewAmplify constructs the chain. maxDepth 0 answers the root question
// directly without decomposition.
func NewAmplify(gen llm.Generator, maxDepth int) (*Amplify, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("max depth must be non-negative, got %d", maxDepth)
	}
	return &Amplify{gen: gen, maxDepth: maxDepth}, nil
}

// Run decomposes, evaluates, and returns the answered tree.
func (a *Amplify) Run(ctx context.Context, question string) (*QuestionAnswerNode, error) {
	decompose := Decompose{}
	tree, err := BuildQuestionTree(ctx, question, a.maxDepth, func(ctx context.Context, q string) ([]string, error) {
		return decompose.Call(ctx, a.gen, q)
	})
	if err != nil {
		return nil, err
	}

	leaf := func(ctx context.Context, q string) (string, error) {
		recipe := QAVariableContext{}
		_, answers, err := recipe.Call(ctx, a.gen, []string{q}, nil)
		if err != nil {
			return "", err
		}
		return answers[0], nil
	}
	parent := func(ctx context.Context, q string, children []QA) (string, error) {
		recipe := QAVariableContext{UseContext: true}
		_, answers, err := recipe.Call(ctx, a.gen, []string{q}, []string{renderSubcontext(children)})
		if err != nil {
			return "", err
		}
		return answers[0], nil
	}

	if err := EvaluateQuestionTree(ctx, tree, leaf, parent); err != nil {
		return nil, err
	}
	return tree, nil
}

// renderSubcontext lays out children's question/answer pairs as a context
// passage for the parent question.
func renderSubcontext(children []QA) string {
	var b strings.Builder
	for i, qa := range children {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Sub-question: ")
		b.WriteString(qa.Question)
		b.WriteString("\nAnswer: ")
		b.WriteString(qa.Answer)
	}
	return b.String()
}
