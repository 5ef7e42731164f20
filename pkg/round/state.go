package round

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// ErrUnknownState is returned when the chain reports a round state tag outside the known set.
var ErrUnknownState = eris.New("unknown round state")

// State is the lifecycle stage of an option round. Rounds only move forward:
// Open -> Auctioning -> Running -> Settled.
type State uint8

const (
	StateOpen State = iota
	StateAuctioning
	StateRunning
	StateSettled
)

// ParseState decodes the raw on-chain tag. Unknown tags are rejected rather than defaulted.
func ParseState(tag uint8) (State, error) {
	s := State(tag)
	switch s {
	case StateOpen, StateAuctioning, StateRunning, StateSettled:
		return s, nil
	default:
		return 0, eris.Wrapf(ErrUnknownState, "tag %d", tag)
	}
}

// ParseStateName decodes a state by its variant name, as Cairo enums and outcome events carry
// it. Names are matched exactly.
func ParseStateName(name string) (State, error) {
	for _, s := range []State{StateOpen, StateAuctioning, StateRunning, StateSettled} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, eris.Wrapf(ErrUnknownState, "variant %q", name)
}

func (s State) MarshalText() ([]byte, error) {
	if _, err := ParseState(uint8(s)); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseStateName(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s State) String() string {
	switch s {
	case StateOpen:
		return "Open"
	case StateAuctioning:
		return "Auctioning"
	case StateRunning:
		return "Running"
	case StateSettled:
		return "Settled"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Terminal reports whether no further action can be taken on a round in this state.
func (s State) Terminal() bool {
	return s == StateSettled
}
