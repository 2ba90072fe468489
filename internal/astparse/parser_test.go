package astparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/repomap-engine/internal/types"
)

func tagNames(tags []types.Tag, cat types.Category) []string {
	var names []string
	for _, t := range tags {
		if t.Category == cat {
			names = append(names, t.Name)
		}
	}
	return names
}

func TestExtractGo(t *testing.T) {
	e := New()
	src := []byte(`package sample

import "fmt"

const MaxRetries = 3

type Widget struct{}

func (w *Widget) Spin() {
	fmt.Println("spin")
}

func NewWidget() *Widget {
	return &Widget{}
}
`)
	tags, err := e.Extract("sample.go", src)
	require.NoError(t, err)
	assert.Contains(t, tagNames(tags, types.CategoryFunction), "NewWidget")
	assert.Contains(t, tagNames(tags, types.CategoryMethod), "Spin")
	assert.Contains(t, tagNames(tags, types.CategoryClass), "Widget")
	assert.Contains(t, tagNames(tags, types.CategoryConstant), "MaxRetries")
	assert.Contains(t, tagNames(tags, types.CategoryImport), "fmt")
}

func TestExtractPython(t *testing.T) {
	e := New()
	src := []byte(`import os

class Greeter:
    def greet(self):
        print("hi")

def standalone():
    pass
`)
	tags, err := e.Extract("sample.py", src)
	require.NoError(t, err)
	assert.Contains(t, tagNames(tags, types.CategoryClass), "Greeter")
	assert.Contains(t, tagNames(tags, types.CategoryMethod), "greet")
	assert.Contains(t, tagNames(tags, types.CategoryFunction), "standalone")
	assert.Contains(t, tagNames(tags, types.CategoryImport), "os")
}

func TestExtractTypeScript(t *testing.T) {
	e := New()
	src := []byte(`import { thing } from "./thing";

interface Shape {
	area(): number;
}

class Circle implements Shape {
	area(): number {
		return 0;
	}
}

function build(): Circle {
	return new Circle();
}
`)
	tags, err := e.Extract("sample.ts", src)
	require.NoError(t, err)
	assert.Contains(t, tagNames(tags, types.CategoryClass), "Circle")
	assert.Contains(t, tagNames(tags, types.CategoryMethod), "area")
	assert.Contains(t, tagNames(tags, types.CategoryFunction), "build")
}

func TestExtractRust(t *testing.T) {
	e := New()
	src := []byte(`use std::fmt;

struct Point {
	x: i32,
}

impl Point {
	fn dist(&self) -> i32 {
		self.x
	}
}

fn origin() -> Point {
	Point { x: 0 }
}
`)
	tags, err := e.Extract("sample.rs", src)
	require.NoError(t, err)
	assert.Contains(t, tagNames(tags, types.CategoryClass), "Point")
	assert.Contains(t, tagNames(tags, types.CategoryMethod), "dist")
	assert.Contains(t, tagNames(tags, types.CategoryFunction), "origin")
}

func TestExtractUnsupportedExtensionReturnsEmpty(t *testing.T) {
	e := New()
	tags, err := e.Extract("notes.txt", []byte("hello world"))
	require.NoError(t, err)
	assert.Nil(t, tags)
}

func TestSupportsExtension(t *testing.T) {
	e := New()
	assert.True(t, e.SupportsExtension(".go"))
	assert.True(t, e.SupportsExtension(".py"))
	assert.True(t, e.SupportsExtension(".tsx"))
	assert.False(t, e.SupportsExtension(".md"))
}
