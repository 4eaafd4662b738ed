// facewatch watches a camera and alerts when the registered person leaves
// the frame or someone else takes their place.
package main

func main() {
	Execute()
}
