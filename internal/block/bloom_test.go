package block

import "testing"

func TestBloomNoFalseNegatives(t *testing.T) {
	b := NewBloom(1000, 0.01)
	keys := make([][]byte, 0, 500)
	for i := 0; i < 500; i++ {
		k := []byte{byte(i), byte(i >> 8), byte(i >> 16)}
		keys = append(keys, k)
		b.Add(k)
	}
	for _, k := range keys {
		if !b.MayContain(k) {
			t.Fatalf("bloom filter false negative for key %v", k)
		}
	}
}

func TestBloomRejectsObviouslyAbsentKeys(t *testing.T) {
	b := NewBloom(16, 0.01)
	b.Add([]byte("present"))
	falsePositives := 0
	for i := 0; i < 200; i++ {
		absent := []byte{byte(i), byte(i >> 8), 0xAA, 0xBB}
		if b.MayContain(absent) {
			falsePositives++
		}
	}
	if falsePositives == 200 {
		t.Fatalf("bloom filter accepted every absent key; filter is not discriminating")
	}
}
