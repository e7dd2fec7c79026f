// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

// Context keys shared between commands and the handlers that read the final
// results back out of a chain.
const (
	ParamUploadHeader   = "__UPLOAD_HEADER__"   // *multipart.FileHeader
	ParamUploadedAudio  = "__UPLOADED_AUDIO__"  // *model.UploadedAudioAsset
	ParamWavPath        = "__WAV_PATH__"        // string
	ParamTranscript     = "__TRANSCRIPT__"      // string
	ParamSynthesisText  = "__SYNTHESIS_TEXT__"  // string
	ParamTextChunks     = "__TEXT_CHUNKS__"     // []*model.TextChunk
	ParamAudioSegments  = "__AUDIO_SEGMENTS__"  // []*model.SynthesizedAudioSegment
	ParamMergedAudio    = "__MERGED_AUDIO__"    // *model.MergedAudioAsset
	ParamUserPrompt     = "__USER_PROMPT__"     // string
	ParamTable          = "__TABLE__"           // string
	ParamCategories     = "__CATEGORIES__"      // *model.CategoryCatalog
	ParamRawExtraction  = "__RAW_EXTRACTION__"  // string
	ParamProductQuery   = "__PRODUCT_QUERY__"   // *model.ProductQuery
	ParamSearchRequest  = "__SEARCH_REQUEST__"  // *model.SearchRequest
	ParamSearchResults  = "__SEARCH_RESULTS__"  // []*model.SearchResult
	ParamRetrievedCount = "__RETRIEVED_COUNT__" // int, rows returned by the store before brand filtering
)

// TranscriptPlaceholder is returned when the speech service recognises nothing.
const TranscriptPlaceholder = "Transcription not found"
