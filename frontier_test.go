// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sitemirror

import (
	"reflect"
	"testing"
)

func TestFrontierEnqueue(t *testing.T) {
	f := NewFrontier()

	if !f.Enqueue("http://a/1") {
		t.Error("first Enqueue should report a new URL")
	}
	if f.Enqueue("http://a/1") {
		t.Error("second Enqueue of the same URL should report a duplicate")
	}
	if got, want := f.Len(), 1; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
}

func TestFrontierOrder(t *testing.T) {
	f := NewFrontier()
	urls := []string{"http://a/1", "http://a/2", "http://a/3"}
	for _, u := range urls {
		f.Enqueue(u)
	}
	f.Enqueue("http://a/2") // duplicate, keeps its first position

	if got, want := f.URLs(), urls; !reflect.DeepEqual(got, want) {
		t.Errorf("URLs() = %v, want %v", got, want)
	}
}

func TestFrontierNext(t *testing.T) {
	f := NewFrontier()
	f.Enqueue("http://a/1")
	f.Enqueue("http://a/2")

	for _, want := range []string{"http://a/1", "http://a/2"} {
		got, ok := f.Next()
		if !ok {
			t.Fatalf("Next() ok = false, want %q", want)
		}
		if got != want {
			t.Errorf("Next() = %q, want %q", got, want)
		}
	}
	if _, ok := f.Next(); ok {
		t.Error("Next() on a drained frontier should report ok = false")
	}

	// The frontier can grow after being drained; Next resumes.
	f.Enqueue("http://a/3")
	got, ok := f.Next()
	if !ok || got != "http://a/3" {
		t.Errorf("Next() after growth = %q, %v, want %q, true", got, ok, "http://a/3")
	}
}

func TestFrontierPending(t *testing.T) {
	f := NewFrontier()
	f.Enqueue("http://a/1")
	f.Enqueue("http://a/2")
	f.Enqueue("http://a/3")

	if got, want := f.Pending(), 3; got != want {
		t.Errorf("Pending() = %d, want %d", got, want)
	}
	f.Next()
	if got, want := f.Pending(), 2; got != want {
		t.Errorf("Pending() after one Next = %d, want %d", got, want)
	}
}

func TestFrontierURLsIsCopy(t *testing.T) {
	f := NewFrontier()
	f.Enqueue("http://a/1")

	urls := f.URLs()
	urls[0] = "mutated"

	if got, want := f.URLs()[0], "http://a/1"; got != want {
		t.Errorf("URLs() returned a shared slice: got %q, want %q", got, want)
	}
}
