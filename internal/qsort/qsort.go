// Copyright (C) 2026 The flatfield authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package qsort provides partition-based sorting and order statistics
// over float32 slices, the workhorse behind the median filter.
package qsort

// Sorts an array of float32 in ascending order.
// Array must not contain IEEE NaN
func QSortFloat32(a []float32) {
	if len(a) > 1 {
		index := QPartitionFloat32(a)
		QSortFloat32(a[:index+1])
		QSortFloat32(a[index+1:])
	}
}

// Partitions an array of float32 around the middle pivot element, and returns
// the pivot index. Values less than the pivot end up left of it, greater ones right.
// Array must not contain IEEE NaN
func QPartitionFloat32(a []float32) int {
	pivot := a[(len(a)-1)>>1]
	l, r := -1, len(a)
	for {
		for {
			l++
			if a[l] >= pivot {
				break
			}
		}
		for {
			r--
			if a[r] <= pivot {
				break
			}
		}
		if l >= r {
			return r
		}
		a[l], a[r] = a[r], a[l]
	}
}

// Selects the kth lowest element of an array of float32, with k starting from one.
// Partially reorders the array in place. Average O(n); the worst case is quadratic
// for adversarial pivots, which does not matter for the small kernel buffers this
// is called on. Array must not contain IEEE NaN
func QSelectFloat32(a []float32, k int) float32 {
	left, right := 0, len(a)-1
	for left < right {
		pivot := a[(left+right)>>1]
		l, r := left-1, right+1
		for {
			for {
				l++
				if a[l] >= pivot {
					break
				}
			}
			for {
				r--
				if a[r] <= pivot {
					break
				}
			}
			if l >= r {
				break
			}
			a[l], a[r] = a[r], a[l]
		}

		length := r - left + 1
		if k <= length {
			right = r
		} else {
			left = r + 1
			k -= length
		}
	}
	return a[left]
}

// Selects the median of an array of float32, averaging the two middle
// elements for arrays of even length. Partially reorders the array.
// Array must not contain IEEE NaN
func QSelectMedianFloat32(a []float32) float32 {
	if (len(a) & 1) != 0 {
		return QSelectFloat32(a, (len(a)>>1)+1)
	}
	upper := QSelectFloat32(a, (len(a)>>1)+1)
	lower := QSelectFloat32(a, len(a)>>1)
	return 0.5 * (lower + upper)
}

// Selects the first quartile of an array of float32. Partially reorders the array.
// Array must not contain IEEE NaN
func QSelectFirstQuartileFloat32(a []float32) float32 {
	return QSelectFloat32(a, (len(a)>>2)+1)
}

// Calculates the median of a float32 slice of length nine, the 3x3 kernel case,
// with a fixed sorting network. Modifies the elements in place.
// From https://stackoverflow.com/questions/45453537/optimal-9-element-sorting-network-that-reduces-to-an-optimal-median-of-9-network
// See also http://ndevilla.free.fr/median/median/src/optmed.c for other sizes
// Array must not contain IEEE NaN
func MedianFloat32Slice9(a []float32) float32 { // 30x min/max
	if a[0] > a[1] { a[0], a[1] = a[1], a[0] } // swap(a,0,1)
	if a[3] > a[4] { a[3], a[4] = a[4], a[3] } // swap(a,3,4)
	if a[6] > a[7] { a[6], a[7] = a[7], a[6] } // swap(a,6,7)
	if a[1] > a[2] { a[1], a[2] = a[2], a[1] } // swap(a,1,2)
	if a[4] > a[5] { a[4], a[5] = a[5], a[4] } // swap(a,4,5)
	if a[7] > a[8] { a[7], a[8] = a[8], a[7] } // swap(a,7,8)
	if a[0] > a[1] { a[0], a[1] = a[1], a[0] } // swap(a,0,1)
	if a[3] > a[4] { a[3], a[4] = a[4], a[3] } // swap(a,3,4)
	if a[6] > a[7] { a[6], a[7] = a[7], a[6] } // swap(a,6,7)
	if a[0] > a[3] { a[3]       = a[0]       } // max (a,0,3)
	if a[3] > a[6] { a[6]       = a[3]       } // max (a,3,6)
	if a[1] > a[4] { a[1], a[4] = a[4], a[1] } // swap(a,1,4)
	if a[4] > a[7] { a[4]       = a[7]       } // min (a,4,7)
	if a[1] > a[4] { a[4]       = a[1]       } // max (a,1,4)
	if a[5] > a[8] { a[5]       = a[8]       } // min (a,5,8)
	if a[2] > a[5] { a[2]       = a[5]       } // min (a,2,5)
	if a[2] > a[4] { a[2], a[4] = a[4], a[2] } // swap(a,2,4)
	if a[4] > a[6] { a[4]       = a[6]       } // min (a,4,6)
	if a[2] > a[4] { a[4]       = a[2]       } // max (a,2,4)
	return a[4]
}
